package analyzer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

var mouseEvents = map[string]bool{
	"click":     true,
	"dblclick":  true,
	"mousedown": true,
	"mouseup":   true,
}

var keyboardEvents = map[string]bool{
	"keydown":  true,
	"keyup":    true,
	"keypress": true,
}

// Keyboard flags elements that react to pointer events but not to any
// keyboard event. The absence check runs against the element's canonical
// identity, so a keydown handler registered in another file clears the
// finding once cross-file context is merged.
type Keyboard struct{}

// NewKeyboard returns the keyboard-access analyzer.
func NewKeyboard() *Keyboard { return &Keyboard{} }

func (*Keyboard) ID() string { return "keyboard-access" }

func (*Keyboard) WCAG() []string { return []string{"2.1.1"} }

func (*Keyboard) IssueTypes() []string { return []string{"mouse-only-click"} }

func (*Keyboard) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue
	flagged := make(map[string]bool)

	ir.Walk(tree, func(n *ir.ActionNode) bool {
		if n.Type != ir.ActionEventHandler || !mouseEvents[n.Event] || n.Element.IsZero() {
			return true
		}
		if n.Hint("keyboardEquivalent") != "" {
			return true
		}
		id := string(snap.Canonical(n.Element))
		if flagged[id] {
			return true
		}

		for _, peer := range snap.NodesFor(snap.Canonical(n.Element)) {
			if peer.Type == ir.ActionEventHandler && keyboardEvents[peer.Event] {
				return true
			}
		}

		flagged[id] = true
		issues = append(issues, models.Issue{
			Type:       "mouse-only-click",
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("element %s handles %q but no keyboard event", n.Element, n.Event),
			WCAG:       []string{"2.1.1"},
			Confidence: ir.ConfidenceHigh,
			AnchorID:   n.StableID(),
			Location:   n.Location,
			Element:    id,
		})
		return true
	})
	return issues
}
