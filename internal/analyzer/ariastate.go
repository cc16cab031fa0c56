package analyzer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// stateAttrs are the ARIA attributes that reflect interactive state and
// are expected to change as the user interacts.
var stateAttrs = map[string]bool{
	"aria-expanded": true,
	"aria-selected": true,
	"aria-checked":  true,
	"aria-pressed":  true,
	"aria-hidden":   true,
	"aria-disabled": true,
}

// AriaState detects state attributes that are set exactly once on an
// element that also carries event handlers: the state was initialized but
// nothing ever updates it, so assistive technology reports a frozen
// value. This is the stateful-aggregation detection strategy, counting
// mutations per (canonical element, attribute) pair across the whole
// merged context.
type AriaState struct{}

// NewAriaState returns the static-ARIA-state analyzer.
func NewAriaState() *AriaState { return &AriaState{} }

func (*AriaState) ID() string { return "aria-state" }

func (*AriaState) WCAG() []string { return []string{"4.1.2"} }

func (*AriaState) IssueTypes() []string { return []string{"static-aria-state"} }

func (*AriaState) Analyze(tree []*ir.ActionNode, snap *workspace.Snapshot) []models.Issue {
	var issues []models.Issue

	ir.Walk(tree, func(n *ir.ActionNode) bool {
		if n.Type != ir.ActionAriaStateChange || !stateAttrs[n.Attribute] || n.Element.IsZero() {
			return true
		}
		if n.Hint("stateToggle") != "" {
			return true
		}

		id := snap.Canonical(n.Element)
		writes := 0
		hasHandler := false
		for _, peer := range snap.NodesFor(id) {
			switch peer.Type {
			case ir.ActionAriaStateChange:
				if peer.Attribute == n.Attribute {
					writes++
				}
			case ir.ActionEventHandler:
				hasHandler = true
			}
		}

		// Writes inside handler bodies count as updates too; NodesFor
		// already walks handler sub-trees.
		if writes != 1 || !hasHandler {
			return true
		}

		issues = append(issues, models.Issue{
			Type:       "static-aria-state",
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("%s is set once and never updated on an interactive element", n.Attribute),
			WCAG:       []string{"4.1.2"},
			Confidence: ir.ConfidenceHigh,
			AnchorID:   n.StableID(),
			Location:   n.Location,
			Element:    string(id),
		})
		return true
	})
	return issues
}
