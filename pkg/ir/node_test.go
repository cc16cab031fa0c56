package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStableID(t *testing.T) {
	a := &ActionNode{
		Type:     ActionEventHandler,
		Element:  ElementRef{Binding: "btn"},
		Event:    "click",
		Location: Location{File: "app.js", Line: 10, Column: 2},
	}
	b := a.Clone()

	assert.Equal(t, a.StableID(), b.StableID(), "identical nodes must derive the same id")

	c := a.Clone()
	c.Event = "keydown"
	assert.NotEqual(t, a.StableID(), c.StableID())

	d := a.Clone()
	d.ID = "explicit"
	assert.Equal(t, "explicit", d.StableID(), "assigned ids win over derived ones")
}

func TestCloneIsDeep(t *testing.T) {
	n := &ActionNode{
		Type:    ActionEventHandler,
		Element: ElementRef{Selector: "#submit"},
		Event:   "click",
		Handler: &Handler{Body: []*ActionNode{
			{Type: ActionNavigation, NewValue: StringValue("/done")},
		}},
		Metadata: Metadata{Hints: map[string]string{"origin": "js"}},
	}

	c := n.Clone()
	c.Handler.Body[0].NewValue = StringValue("/elsewhere")
	c.Metadata.Hints["origin"] = "html"

	assert.Equal(t, "/done", n.Handler.Body[0].NewValue.String())
	assert.Equal(t, "js", n.Metadata.Hints["origin"])
}

func TestWithHintDoesNotMutateReceiver(t *testing.T) {
	n := &ActionNode{Type: ActionTiming}
	h := n.WithHint("superseded", "true")

	assert.Equal(t, "", n.Hint("superseded"))
	assert.Equal(t, "true", h.Hint("superseded"))
}

func TestWalkVisitsHandlerBodies(t *testing.T) {
	tree := []*ActionNode{
		{Type: ActionEventHandler, Event: "click", Handler: &Handler{Body: []*ActionNode{
			{Type: ActionAriaStateChange, Attribute: "aria-expanded"},
			{Type: ActionFocusChange},
		}}},
		{Type: ActionTiming},
	}

	var types []ActionType
	Walk(tree, func(n *ActionNode) bool {
		types = append(types, n.Type)
		return true
	})
	assert.Equal(t, []ActionType{ActionEventHandler, ActionAriaStateChange, ActionFocusChange, ActionTiming}, types)

	// Early termination.
	count := 0
	Walk(tree, func(n *ActionNode) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestValueAcceptsStringAndNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOk bool
		asInt  int
	}{
		{name: "bare number", input: `5`, want: "5", wantOk: true, asInt: 5},
		{name: "negative number", input: `-1`, want: "-1", wantOk: true, asInt: -1},
		{name: "numeric string", input: `"0"`, want: "0", wantOk: true, asInt: 0},
		{name: "plain string", input: `"true"`, want: "true", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.want, v.String())
			i, ok := v.Int()
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.asInt, i)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	tree := []*ActionNode{
		{
			ID:       "n1",
			Type:     ActionTabIndexChange,
			Element:  ElementRef{Binding: "b"},
			NewValue: IntValue(5),
			Location: Location{File: "page.html", Line: 3, Column: 1},
			Metadata: Metadata{WCAG: []string{"2.4.3"}, Confidence: ConfidenceHigh},
		},
	}

	data, err := EncodeTree("page.html", tree)
	require.NoError(t, err)

	doc, err := DecodeTree(data)
	require.NoError(t, err)
	require.Len(t, doc.Tree, 1)

	got := doc.Tree[0]
	assert.Equal(t, ActionTabIndexChange, got.Type)
	idx, ok := got.TabIndex()
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.Equal(t, ConfidenceHigh, got.Metadata.Confidence)
}

func TestDecodeBareArray(t *testing.T) {
	doc, err := DecodeTree([]byte(`[{"id":"x","actionType":"timing","element":{},"location":{"file":"a.js","line":1,"column":1}}]`))
	require.NoError(t, err)
	require.Len(t, doc.Tree, 1)
	assert.Equal(t, ActionTiming, doc.Tree[0].Type)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeTree([]byte(`{"version":99,"tree":[]}`))
	assert.Error(t, err)
}

func TestConfidenceOrderingAndCodec(t *testing.T) {
	assert.True(t, ConfidenceLow < ConfidenceMedium)
	assert.True(t, ConfidenceMedium < ConfidenceHigh)
	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Cap(ConfidenceMedium))
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Cap(ConfidenceHigh))

	data, err := json.Marshal(ConfidenceHigh)
	require.NoError(t, err)
	assert.Equal(t, `"HIGH"`, string(data))

	var c Confidence
	require.NoError(t, json.Unmarshal([]byte(`"MEDIUM"`), &c))
	assert.Equal(t, ConfidenceMedium, c)
}
