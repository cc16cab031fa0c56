// Package fixer turns analyzer issues into IR-level edits. Fixers are
// registered once at session start and selected first-match in
// registration order. The engine never mutates the input tree: every
// Apply works on a deep copy, so issue lists produced against the old
// tree stay valid until the caller re-analyzes.
package fixer

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/pkg/ir"
	"github.com/ariadne-dev/ariadne/pkg/models"
)

// Op is the edit operation a fix applies at its anchor node.
type Op int

const (
	// OpInsertAfter places the fix nodes immediately after the anchor,
	// in the anchor's containing body.
	OpInsertAfter Op = iota
	// OpReplace substitutes the fix nodes for the anchor.
	OpReplace
	// OpDelete removes the anchor; fix nodes must be empty.
	OpDelete
)

// Edit is the output of one fix: an operation plus the nodes it inserts.
type Edit struct {
	Op    Op
	Nodes []*ir.ActionNode
}

// Fixer produces an edit for issues it recognizes. Fix receives the
// anchor node already re-resolved inside the working tree; it must not
// mutate the anchor.
type Fixer interface {
	// ID identifies the fixer in application records and diagnostics.
	ID() string
	// CanFix reports whether the fixer handles this issue.
	CanFix(issue models.Issue) bool
	// Fix computes the edit for the issue.
	Fix(anchor *ir.ActionNode, issue models.Issue) (Edit, error)
}

// Applied records one successfully applied fix.
type Applied struct {
	FixerID   string `json:"fixerId"`
	IssueType string `json:"issueType"`
	AnchorID  string `json:"anchorId"`
}

// Result carries the fixed tree plus what happened along the way.
// Diagnostics holds fix-failed issues for edits that could not be
// placed; the tree is still valid in that case, minus those fixes.
type Result struct {
	Tree        []*ir.ActionNode
	Applied     []Applied
	Diagnostics []models.Issue
}

// Engine applies registered fixers to issues. Selection is first-match
// in registration order; a later fixer claiming the same issue type
// never runs.
type Engine struct {
	fixers []Fixer
}

// NewEngine builds an engine over the given fixers, in registration
// order.
func NewEngine(fixers []Fixer) *Engine {
	return &Engine{fixers: fixers}
}

// Fixers returns the registered fixers in order.
func (e *Engine) Fixers() []Fixer { return e.fixers }

// CanFix reports whether any registered fixer handles the issue.
func (e *Engine) CanFix(issue models.Issue) bool {
	return e.pick(issue) != nil
}

func (e *Engine) pick(issue models.Issue) Fixer {
	for _, f := range e.fixers {
		if f.CanFix(issue) {
			return f
		}
	}
	return nil
}

// Apply fixes every fixable issue against a copy of the tree. Anchors
// are re-resolved by node ID before each application, since earlier
// edits shift positions. Issues no fixer claims are skipped silently;
// anchors that no longer exist and fixers that error produce fix-failed
// diagnostics without corrupting the tree.
func (e *Engine) Apply(tree []*ir.ActionNode, issues []models.Issue) Result {
	res := Result{Tree: ir.CloneTree(tree)}

	for _, issue := range issues {
		f := e.pick(issue)
		if f == nil {
			continue
		}

		anchor := findByID(res.Tree, issue.AnchorID)
		if anchor == nil {
			res.Diagnostics = append(res.Diagnostics, fixFailed(f, issue,
				fmt.Sprintf("anchor node %s no longer exists", issue.AnchorID)))
			continue
		}

		edit, err := f.Fix(anchor, issue)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, fixFailed(f, issue, err.Error()))
			continue
		}
		for _, n := range edit.Nodes {
			if n.ID == "" {
				n.ID = n.StableID()
			}
		}

		next, ok := splice(res.Tree, issue.AnchorID, edit)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, fixFailed(f, issue,
				fmt.Sprintf("anchor node %s vanished during application", issue.AnchorID)))
			continue
		}
		res.Tree = next
		res.Applied = append(res.Applied, Applied{
			FixerID:   f.ID(),
			IssueType: issue.Type,
			AnchorID:  issue.AnchorID,
		})
	}
	return res
}

func fixFailed(f Fixer, issue models.Issue, msg string) models.Issue {
	return models.Issue{
		Type:       models.IssueFixFailed,
		Severity:   models.SeverityInfo,
		Message:    fmt.Sprintf("fixer %s could not fix %s: %s", f.ID(), issue.Type, msg),
		Confidence: ir.ConfidenceHigh,
		AnchorID:   issue.AnchorID,
		Location:   issue.Location,
	}
}

// findByID locates a node by stable ID anywhere in the tree, handler
// bodies included.
func findByID(tree []*ir.ActionNode, id string) *ir.ActionNode {
	var found *ir.ActionNode
	ir.Walk(tree, func(n *ir.ActionNode) bool {
		if n.StableID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// splice applies an edit at the anchor's position. The tree passed in is
// already the engine's private copy, so containing slices are rebuilt
// but node structs are reused.
func splice(tree []*ir.ActionNode, anchorID string, edit Edit) ([]*ir.ActionNode, bool) {
	for i, n := range tree {
		if n.StableID() == anchorID {
			out := make([]*ir.ActionNode, 0, len(tree)+len(edit.Nodes))
			out = append(out, tree[:i]...)
			switch edit.Op {
			case OpInsertAfter:
				out = append(out, n)
				out = append(out, edit.Nodes...)
			case OpReplace:
				out = append(out, edit.Nodes...)
			case OpDelete:
			}
			out = append(out, tree[i+1:]...)
			return out, true
		}
		if n.Handler == nil {
			continue
		}
		if body, ok := splice(n.Handler.Body, anchorID, edit); ok {
			n.Handler = &ir.Handler{Body: body}
			return tree, true
		}
	}
	return tree, false
}
