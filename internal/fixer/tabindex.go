package fixer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// TabIndexZero fixes positive-tabindex issues by replacing the
// registration with one setting the value to 0, which keeps the element
// focusable while restoring document order. The original registration
// stays behind marked superseded so the replacement can be diffed
// against it; the optimizer drops it before codegen.
type TabIndexZero struct{}

// NewTabIndexZero returns the tabindex-zero fixer.
func NewTabIndexZero() *TabIndexZero { return &TabIndexZero{} }

func (*TabIndexZero) ID() string { return "tabindex-zero" }

func (*TabIndexZero) CanFix(issue models.Issue) bool {
	return issue.Type == "positive-tabindex"
}

func (*TabIndexZero) Fix(anchor *ir.ActionNode, issue models.Issue) (Edit, error) {
	if anchor.Type != ir.ActionTabIndexChange {
		return Edit{}, fmt.Errorf("anchor is %s, want %s", anchor.Type, ir.ActionTabIndexChange)
	}

	retired := anchor.WithHint(ir.HintSuperseded, "tabindex-zero")

	fixed := anchor.Clone()
	fixed.OldValue = anchor.NewValue
	fixed.NewValue = ir.IntValue(0)
	fixed.Metadata.Origin = "fix"
	// The retired node keeps the anchor's ID; the replacement needs its
	// own even though shape and location coincide.
	fixed.ID = anchor.StableID() + "-fix"

	return Edit{Op: OpReplace, Nodes: []*ir.ActionNode{retired, fixed}}, nil
}
