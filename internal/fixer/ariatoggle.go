package fixer

import (
	"fmt"
	"strconv"

	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// AriaToggle fixes static-aria-state issues by inserting the
// complementary state write after the initializing one, so the
// attribute actually toggles when the element is interacted with. Both
// writes carry a stateToggle hint to keep the pair out of a stale
// re-analysis.
type AriaToggle struct{}

// NewAriaToggle returns the aria-toggle fixer.
func NewAriaToggle() *AriaToggle { return &AriaToggle{} }

func (*AriaToggle) ID() string { return "aria-toggle" }

func (*AriaToggle) CanFix(issue models.Issue) bool {
	return issue.Type == "static-aria-state"
}

func (*AriaToggle) Fix(anchor *ir.ActionNode, issue models.Issue) (Edit, error) {
	if anchor.Type != ir.ActionAriaStateChange {
		return Edit{}, fmt.Errorf("anchor is %s, want %s", anchor.Type, ir.ActionAriaStateChange)
	}
	initial, ok := anchor.NewValue.Bool()
	if !ok {
		return Edit{}, fmt.Errorf("cannot derive toggle for %s value %q", anchor.Attribute, anchor.NewValue)
	}

	marked := anchor.WithHint("stateToggle", "initial")

	toggle := anchor.WithHint("stateToggle", "generated")
	toggle.OldValue = anchor.NewValue
	toggle.NewValue = ir.StringValue(strconv.FormatBool(!initial))
	toggle.Metadata.Origin = "fix"
	// The initial write keeps the anchor's derived ID; the toggle needs
	// its own even though shape and location coincide.
	toggle.ID = anchor.StableID() + "-toggle"

	return Edit{Op: OpReplace, Nodes: []*ir.ActionNode{marked, toggle}}, nil
}
