package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

func sampleTree() []*ir.ActionNode {
	keydown := &ir.ActionNode{
		Type:    ir.ActionEventHandler,
		Event:   "keydown",
		Element: ir.ElementRef{Selector: "#submit"},
		Handler: &ir.Handler{Body: []*ir.ActionNode{
			{
				Type:      ir.ActionAriaStateChange,
				Element:   ir.ElementRef{Binding: "menu"},
				Attribute: "aria-expanded",
				NewValue:  ir.StringValue("true"),
			},
			{
				Type:    ir.ActionFocusChange,
				Element: ir.ElementRef{ID: "first-item"},
			},
		}},
		Location: ir.Location{File: "app.js", Line: 4, Column: 1},
	}
	keydown.ID = keydown.StableID()

	tabfix := &ir.ActionNode{
		Type:      ir.ActionTabIndexChange,
		Element:   ir.ElementRef{Selector: "#late"},
		Attribute: "tabindex",
		NewValue:  ir.IntValue(0),
		Location:  ir.Location{File: "app.js", Line: 9, Column: 1},
	}
	tabfix.ID = tabfix.StableID()

	return []*ir.ActionNode{keydown, tabfix}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(NewIRJSON(), NewJSSnippet())

	g, ok := r.ForLanguage("javascript")
	assert.True(t, ok)
	assert.Equal(t, "javascript", g.Language())

	_, ok = r.ForLanguage("python")
	assert.False(t, ok)

	assert.Equal(t, []string{"ir", "javascript"}, r.Languages())

	_, err := r.Generate("python", "app.py", nil)
	assert.Error(t, err)
}

func TestIRJSONRoundTrip(t *testing.T) {
	tree := sampleTree()

	out, err := NewIRJSON().Generate("app.js", tree)
	require.NoError(t, err)

	doc, err := ir.DecodeTree([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "app.js", doc.File)
	require.Len(t, doc.Tree, 2)
	assert.Equal(t, tree[0].ID, doc.Tree[0].ID)
	require.NotNil(t, doc.Tree[0].Handler)
	assert.Len(t, doc.Tree[0].Handler.Body, 2)

	idx, ok := doc.Tree[1].TabIndex()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestJSSnippetRendersHandlers(t *testing.T) {
	out, err := NewJSSnippet().Generate("app.js", sampleTree())
	require.NoError(t, err)

	assert.Contains(t, out, "document.querySelector('#submit').addEventListener('keydown', (event) => {")
	assert.Contains(t, out, "  menu.setAttribute('aria-expanded', 'true');")
	assert.Contains(t, out, "  document.getElementById('first-item').focus();")
	assert.Contains(t, out, "document.querySelector('#late').tabIndex = 0;")

	// body statements are indented one level inside the handler
	lines := strings.Split(out, "\n")
	var handlerClosed bool
	for _, l := range lines {
		if l == "});" {
			handlerClosed = true
		}
	}
	assert.True(t, handlerClosed, "handler block should close at top level:\n%s", out)
}

func TestJSSnippetTabIndexRemoval(t *testing.T) {
	node := &ir.ActionNode{
		Type:      ir.ActionTabIndexChange,
		Element:   ir.ElementRef{Binding: "field"},
		Attribute: "tabindex",
	}

	out, err := NewJSSnippet().Generate("app.js", []*ir.ActionNode{node})
	require.NoError(t, err)
	assert.Contains(t, out, "field.removeAttribute('tabindex');")
}

func TestJSSnippetNavigationAndTiming(t *testing.T) {
	tree := []*ir.ActionNode{
		{
			Type:     ir.ActionNavigation,
			Element:  ir.ElementRef{Binding: "link"},
			NewValue: ir.StringValue("/next"),
		},
		{
			Type:     ir.ActionTiming,
			Event:    "timeout",
			NewValue: ir.StringValue("5000"),
		},
	}

	out, err := NewJSSnippet().Generate("app.js", tree)
	require.NoError(t, err)
	assert.Contains(t, out, "window.location.assign('/next');")
	assert.Contains(t, out, "// timed action (timeout) after 5000 ms")
}
