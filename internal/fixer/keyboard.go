package fixer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// KeyboardEquivalent fixes mouse-only-click issues by registering a
// keydown handler next to the pointer handler, mirroring its body so
// keyboard users reach the same behavior. The pointer handler is marked
// with a keyboardEquivalent hint so re-analysis against a stale context
// does not re-flag it; the hint is internal and stripped before codegen.
type KeyboardEquivalent struct{}

// NewKeyboardEquivalent returns the keyboard-equivalent fixer.
func NewKeyboardEquivalent() *KeyboardEquivalent { return &KeyboardEquivalent{} }

func (*KeyboardEquivalent) ID() string { return "keyboard-equivalent" }

func (*KeyboardEquivalent) CanFix(issue models.Issue) bool {
	return issue.Type == "mouse-only-click"
}

func (*KeyboardEquivalent) Fix(anchor *ir.ActionNode, issue models.Issue) (Edit, error) {
	if anchor.Type != ir.ActionEventHandler {
		return Edit{}, fmt.Errorf("anchor is %s, want %s", anchor.Type, ir.ActionEventHandler)
	}

	marked := anchor.WithHint("keyboardEquivalent", "source")

	kb := anchor.WithHint("keyboardEquivalent", "generated")
	kb.Event = "keydown"
	kb.Metadata.Origin = "fix"
	kb.ID = ""
	kb.ID = kb.StableID()

	return Edit{Op: OpReplace, Nodes: []*ir.ActionNode{marked, kb}}, nil
}
