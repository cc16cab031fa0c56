package analyzer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// TabIndex flags positive tabindex values, which override the document's
// natural focus order. Zero joins the natural order and -1 removes the
// element from it; both are fine.
type TabIndex struct{}

// NewTabIndex returns the tab-order analyzer.
func NewTabIndex() *TabIndex { return &TabIndex{} }

func (*TabIndex) ID() string { return "tab-order" }

func (*TabIndex) WCAG() []string { return []string{"2.4.3"} }

func (*TabIndex) IssueTypes() []string { return []string{"positive-tabindex"} }

func (*TabIndex) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue
	ir.Walk(tree, func(n *ir.ActionNode) bool {
		if n.Type != ir.ActionTabIndexChange {
			return true
		}
		// Registrations a fix retired are dropped by the optimizer;
		// skip them so an unoptimized fixed tree re-analyzes clean.
		if n.Hint(ir.HintSuperseded) != "" {
			return true
		}
		value, ok := n.TabIndex()
		if !ok || value <= 0 {
			return true
		}
		issues = append(issues, models.Issue{
			Type:       "positive-tabindex",
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("tabindex %d forces a manual focus order; use 0 to join the natural order", value),
			WCAG:       []string{"2.4.3"},
			Confidence: ir.ConfidenceHigh,
			AnchorID:   n.StableID(),
			Location:   n.Location,
			Element:    string(snap.Canonical(n.Element)),
		})
		return true
	})
	return issues
}
