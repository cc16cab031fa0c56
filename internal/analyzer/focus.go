package analyzer

import (
	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Focus flags handlers that remove or replace DOM content without moving
// focus anywhere. When the removed subtree contained the focused element,
// focus silently falls back to the document body and keyboard users lose
// their place.
type Focus struct{}

// NewFocus returns the focus-management analyzer.
func NewFocus() *Focus { return &Focus{} }

func (*Focus) ID() string { return "focus-management" }

func (*Focus) WCAG() []string { return []string{"2.4.3"} }

func (*Focus) IssueTypes() []string { return []string{"focus-not-managed"} }

func (*Focus) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue
	for _, n := range tree {
		if n.Type != ir.ActionEventHandler || n.Handler == nil {
			continue
		}
		removal := findRemoval(n.Handler.Body)
		if removal == nil || handlerMovesFocus(n.Handler.Body) {
			continue
		}
		issues = append(issues, models.Issue{
			Type:       "focus-not-managed",
			Severity:   models.SeverityWarning,
			Message:    "handler removes content without moving focus; focus may be lost to the document body",
			WCAG:       []string{"2.4.3"},
			Confidence: ir.ConfidenceHigh,
			AnchorID:   removal.StableID(),
			Location:   removal.Location,
			Element:    string(snap.Canonical(removal.Element)),
			RelatedIDs: []string{n.StableID()},
		})
	}
	return issues
}

func findRemoval(body []*ir.ActionNode) *ir.ActionNode {
	var found *ir.ActionNode
	ir.Walk(body, func(n *ir.ActionNode) bool {
		if n.Type == ir.ActionDOMMutation {
			v := n.NewValue.String()
			if v == "remove" || v == "replace" {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

func handlerMovesFocus(body []*ir.ActionNode) bool {
	moved := false
	ir.Walk(body, func(n *ir.ActionNode) bool {
		if n.Type == ir.ActionFocusChange {
			moved = true
			return false
		}
		return true
	})
	return moved
}
