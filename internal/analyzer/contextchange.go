package analyzer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// ContextChange flags navigation triggered from input or change handlers.
// Changing a select or typing in a field must not move the user to a new
// page; that requires an explicit activation step.
type ContextChange struct{}

// NewContextChange returns the unexpected-navigation analyzer.
func NewContextChange() *ContextChange { return &ContextChange{} }

func (*ContextChange) ID() string { return "context-change" }

func (*ContextChange) WCAG() []string { return []string{"3.2.2"} }

func (*ContextChange) IssueTypes() []string { return []string{"unsolicited-context-change"} }

var inputEvents = map[string]bool{
	"change": true,
	"input":  true,
	"focus":  true,
	"blur":   true,
}

func (*ContextChange) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue
	for _, n := range tree {
		if n.Type != ir.ActionEventHandler || !inputEvents[n.Event] || n.Handler == nil {
			continue
		}
		nav := findNavigation(n.Handler.Body)
		if nav == nil {
			continue
		}
		issues = append(issues, models.Issue{
			Type:       "unsolicited-context-change",
			Severity:   models.SeverityError,
			Message:    fmt.Sprintf("%q handler navigates to %q; context changes require explicit activation", n.Event, nav.NewValue.String()),
			WCAG:       []string{"3.2.2"},
			Confidence: ir.ConfidenceHigh,
			AnchorID:   nav.StableID(),
			Location:   nav.Location,
			Element:    string(snap.Canonical(n.Element)),
			RelatedIDs: []string{n.StableID()},
		})
	}
	return issues
}

func findNavigation(body []*ir.ActionNode) *ir.ActionNode {
	var found *ir.ActionNode
	ir.Walk(body, func(n *ir.ActionNode) bool {
		if n.Type == ir.ActionNavigation {
			found = n
			return false
		}
		return true
	})
	return found
}
