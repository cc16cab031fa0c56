package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariadne-dev/ariadne/internal/classify"
	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

func handlerNode(file, binding, selector, event string, line int) *ir.ActionNode {
	n := &ir.ActionNode{
		Type:     ir.ActionEventHandler,
		Event:    event,
		Element:  ir.ElementRef{Binding: binding, Selector: selector},
		Location: ir.Location{File: file, Line: line, Column: 1},
	}
	n.ID = n.StableID()
	return n
}

// mergedContext builds a workspace context holding the given trees and
// returns it; completeRoots are marked as fully discovered.
func mergedContext(trees map[string][]*ir.ActionNode, completeRoots ...string) *workspace.Context {
	c := workspace.NewContext()
	for path, tree := range trees {
		c.AddTree(path, tree)
	}
	for _, root := range completeRoots {
		c.SetComplete(root)
	}
	return c
}

func TestKeyboardCrossFileFalsePositiveElimination(t *testing.T) {
	clickTree := []*ir.ActionNode{handlerNode("a.js", "submitButton", "#submit", "click", 3)}
	keyTree := []*ir.ActionNode{handlerNode("b.js", "btn", "#submit", "keydown", 8)}

	engine := NewEngine([]Analyzer{NewKeyboard()})

	// File-only: b.js is invisible, one MEDIUM issue.
	fileOnly := mergedContext(map[string][]*ir.ActionNode{"a.js": clickTree})
	issues := engine.Run("a.js", clickTree, fileOnly.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, "mouse-only-click", issues[0].Type)
	assert.Equal(t, ir.ConfidenceMedium, issues[0].Confidence)

	// Complete cross-file context: the keydown in b.js clears the issue.
	full := mergedContext(map[string][]*ir.ActionNode{"a.js": clickTree, "b.js": keyTree}, "a.js")
	issues = engine.Run("a.js", clickTree, full.Snapshot())
	assert.Empty(t, issues)
}

func TestKeyboardIssuePromotedToHighWhenComplete(t *testing.T) {
	clickTree := []*ir.ActionNode{handlerNode("a.js", "solo", "#solo", "click", 1)}
	full := mergedContext(map[string][]*ir.ActionNode{"a.js": clickTree}, "a.js")

	issues := NewEngine([]Analyzer{NewKeyboard()}).Run("a.js", clickTree, full.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, ir.ConfidenceHigh, issues[0].Confidence)
}

func TestKeyboardOneIssuePerElement(t *testing.T) {
	tree := []*ir.ActionNode{
		handlerNode("a.js", "btn", "#b", "click", 1),
		handlerNode("a.js", "btn", "#b", "dblclick", 2),
	}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	issues := NewEngine([]Analyzer{NewKeyboard()}).Run("a.js", tree, ctx.Snapshot())
	assert.Len(t, issues, 1)
}

func TestTabIndexScenario(t *testing.T) {
	tests := []struct {
		value int
		want  int
	}{
		{value: 5, want: 1},
		{value: 1, want: 1},
		{value: 0, want: 0},
		{value: -1, want: 0},
	}

	for _, tt := range tests {
		tree := []*ir.ActionNode{{
			Type:     ir.ActionTabIndexChange,
			Element:  ir.ElementRef{Binding: "b"},
			NewValue: ir.IntValue(tt.value),
			Location: ir.Location{File: "a.js", Line: 1, Column: 1},
		}}
		ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

		issues := NewEngine([]Analyzer{NewTabIndex()}).Run("a.js", tree, ctx.Snapshot())
		require.Len(t, issues, tt.want, "tabindex %d", tt.value)
		if tt.want == 1 {
			assert.Equal(t, "positive-tabindex", issues[0].Type)
			assert.Contains(t,
				[]ir.Confidence{ir.ConfidenceMedium, ir.ConfidenceHigh}, issues[0].Confidence)
		}
	}
}

func TestTabIndexSkipsRetiredRegistration(t *testing.T) {
	// A fix leaves the replaced registration behind marked superseded
	// until the optimizer runs; it must not be re-flagged.
	retired := &ir.ActionNode{
		Type:     ir.ActionTabIndexChange,
		Element:  ir.ElementRef{Binding: "b"},
		NewValue: ir.IntValue(5),
		Location: ir.Location{File: "a.js", Line: 1, Column: 1},
	}
	tree := []*ir.ActionNode{
		retired.WithHint(ir.HintSuperseded, "tabindex-zero"),
		{
			Type:     ir.ActionTabIndexChange,
			Element:  ir.ElementRef{Binding: "b"},
			OldValue: ir.IntValue(5),
			NewValue: ir.IntValue(0),
			Location: ir.Location{File: "a.js", Line: 1, Column: 1},
		},
	}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	issues := NewEngine([]Analyzer{NewTabIndex()}).Run("a.js", tree, ctx.Snapshot())
	assert.Empty(t, issues)
}

func TestAriaStateSetOnceNeverUpdated(t *testing.T) {
	static := &ir.ActionNode{
		Type:      ir.ActionAriaStateChange,
		Attribute: "aria-expanded",
		NewValue:  ir.StringValue("false"),
		Element:   ir.ElementRef{ID: "menu"},
		Location:  ir.Location{File: "a.js", Line: 2, Column: 1},
	}
	tree := []*ir.ActionNode{
		static,
		handlerNode("a.js", "", "#menu", "click", 5),
	}
	tree[1].Element = ir.ElementRef{ID: "menu"}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	issues := NewEngine([]Analyzer{NewAriaState()}).Run("a.js", tree, ctx.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, "static-aria-state", issues[0].Type)

	// A second write to the same attribute, even from another file,
	// clears the finding.
	update := static.Clone()
	update.ID = ""
	update.NewValue = ir.StringValue("true")
	update.Location = ir.Location{File: "b.js", Line: 9, Column: 1}
	ctx2 := mergedContext(map[string][]*ir.ActionNode{
		"a.js": tree,
		"b.js": {update},
	}, "a.js")

	issues = NewEngine([]Analyzer{NewAriaState()}).Run("a.js", tree, ctx2.Snapshot())
	assert.Empty(t, issues)
}

func TestFocusNotManaged(t *testing.T) {
	removal := &ir.ActionNode{
		Type:     ir.ActionDOMMutation,
		NewValue: ir.StringValue("remove"),
		Element:  ir.ElementRef{Binding: "dialog"},
		Location: ir.Location{File: "a.js", Line: 4, Column: 3},
	}
	closer := handlerNode("a.js", "closeBtn", "#close", "click", 3)
	closer.Handler = &ir.Handler{Body: []*ir.ActionNode{removal}}
	tree := []*ir.ActionNode{closer}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	issues := NewEngine([]Analyzer{NewFocus()}).Run("a.js", tree, ctx.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, "focus-not-managed", issues[0].Type)

	// Adding a focus move into the handler clears it.
	managed := closer.Clone()
	managed.Handler.Body = append(managed.Handler.Body, &ir.ActionNode{
		Type:     ir.ActionFocusChange,
		Element:  ir.ElementRef{Binding: "trigger"},
		Location: ir.Location{File: "a.js", Line: 5, Column: 3},
	})
	tree2 := []*ir.ActionNode{managed}
	ctx2 := mergedContext(map[string][]*ir.ActionNode{"a.js": tree2}, "a.js")

	issues = NewEngine([]Analyzer{NewFocus()}).Run("a.js", tree2, ctx2.Snapshot())
	assert.Empty(t, issues)
}

func TestContextChangeOnInputNavigation(t *testing.T) {
	nav := &ir.ActionNode{
		Type:     ir.ActionNavigation,
		NewValue: ir.StringValue("/search"),
		Location: ir.Location{File: "a.js", Line: 7, Column: 5},
	}
	sel := handlerNode("a.js", "picker", "#lang", "change", 6)
	sel.Handler = &ir.Handler{Body: []*ir.ActionNode{nav}}
	tree := []*ir.ActionNode{sel}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	issues := NewEngine([]Analyzer{NewContextChange()}).Run("a.js", tree, ctx.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, "unsolicited-context-change", issues[0].Type)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
}

func TestTimingMetaRefreshAndCarousel(t *testing.T) {
	refresh := &ir.ActionNode{
		Type:     ir.ActionTiming,
		Event:    "refresh",
		NewValue: ir.StringValue("5"),
		Location: ir.Location{File: "page.html", Line: 1, Column: 1},
	}
	carouselMut := &ir.ActionNode{
		Type:     ir.ActionDOMMutation,
		NewValue: ir.StringValue("replace"),
		Element:  ir.ElementRef{Binding: "carouselTrack"},
		Location: ir.Location{File: "page.html", Line: 3, Column: 1},
	}
	interval := &ir.ActionNode{
		Type:     ir.ActionTiming,
		Event:    "interval",
		Handler:  &ir.Handler{Body: []*ir.ActionNode{carouselMut}},
		Location: ir.Location{File: "page.html", Line: 2, Column: 1},
	}
	tree := []*ir.ActionNode{refresh, interval}
	ctx := mergedContext(map[string][]*ir.ActionNode{"page.html": tree}, "page.html")

	issues := NewEngine([]Analyzer{NewTiming(classify.Keywords{})}).Run("page.html", tree, ctx.Snapshot())
	require.Len(t, issues, 2)

	// With the heuristic disabled only the structural refresh remains.
	issues = NewEngine([]Analyzer{NewTiming(classify.Disabled{})}).Run("page.html", tree, ctx.Snapshot())
	require.Len(t, issues, 1)
	assert.Equal(t, ir.ConfidenceHigh, issues[0].Confidence)
}

func TestEngineDeterminism(t *testing.T) {
	tree := []*ir.ActionNode{
		handlerNode("a.js", "a", "#a", "click", 10),
		handlerNode("a.js", "b", "#b", "mousedown", 2),
		{
			Type:     ir.ActionTabIndexChange,
			Element:  ir.ElementRef{Binding: "c"},
			NewValue: ir.IntValue(4),
			Location: ir.Location{File: "a.js", Line: 6, Column: 1},
		},
	}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")
	engine := NewEngine(Defaults(classify.Keywords{}))

	first := engine.Run("a.js", tree, ctx.Snapshot())
	second := engine.Run("a.js", tree, ctx.Snapshot())
	assert.Equal(t, first, second)

	// Errors sort before warnings; within a severity, position sorts.
	require.GreaterOrEqual(t, len(first), 3)
	assert.Equal(t, models.SeverityError, first[0].Severity)
	assert.LessOrEqual(t, first[0].Location.Line, first[1].Location.Line)
}

type panicky struct{}

func (panicky) ID() string { return "panicky" }

func (panicky) WCAG() []string { return nil }

func (panicky) IssueTypes() []string { return []string{"never"} }


func (panicky) Analyze([]*ir.ActionNode, *workspace.Snapshot) []models.Issue {
	panic("boom")
}

func TestEngineSurvivesPanickingAnalyzer(t *testing.T) {
	tree := []*ir.ActionNode{handlerNode("a.js", "a", "#a", "click", 1)}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	engine := NewEngine([]Analyzer{panicky{}, NewKeyboard()})
	issues := engine.Run("a.js", tree, ctx.Snapshot())

	var types []string
	for _, i := range issues {
		types = append(types, i.Type)
	}
	assert.Contains(t, types, models.IssueAnalyzerFailed)
	assert.Contains(t, types, "mouse-only-click", "other analyzers still run")
}

func TestEngineMinConfidenceFilter(t *testing.T) {
	carouselMut := &ir.ActionNode{
		Type:     ir.ActionDOMMutation,
		NewValue: ir.StringValue("replace"),
		Element:  ir.ElementRef{Binding: "slider"},
		Location: ir.Location{File: "a.js", Line: 2, Column: 1},
	}
	tree := []*ir.ActionNode{{
		Type:     ir.ActionTiming,
		Event:    "interval",
		Handler:  &ir.Handler{Body: []*ir.ActionNode{carouselMut}},
		Location: ir.Location{File: "a.js", Line: 1, Column: 1},
	}}
	ctx := mergedContext(map[string][]*ir.ActionNode{"a.js": tree}, "a.js")

	unfiltered := NewEngine([]Analyzer{NewTiming(classify.Keywords{})}).Run("a.js", tree, ctx.Snapshot())
	require.Len(t, unfiltered, 1)

	filtered := NewEngine([]Analyzer{NewTiming(classify.Keywords{})},
		WithMinConfidence(ir.ConfidenceMedium)).Run("a.js", tree, ctx.Snapshot())
	assert.Empty(t, filtered, "LOW heuristic findings drop below a MEDIUM threshold")
}
