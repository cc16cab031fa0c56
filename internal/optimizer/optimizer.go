// Package optimizer cleans an IR tree before it reaches a code
// generator: fix-superseded nodes and reference carriers are dropped,
// structurally identical handlers on the same canonical element fold
// into one, and internal hints are stripped. The pass is pure and
// idempotent; running it twice yields the same tree as running it once.
package optimizer

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/ariadne-dev/ariadne/internal/workspace"
	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Optimizer prunes and deduplicates IR trees.
type Optimizer struct{}

// New returns an optimizer.
func New() *Optimizer { return &Optimizer{} }

// Optimize returns a cleaned copy of the tree. The input is never
// mutated. The snapshot supplies canonical element identity for handler
// deduplication; with an empty snapshot, deduplication falls back to
// raw element refs.
func (o *Optimizer) Optimize(tree []*ir.ActionNode, snap *workspace.Snapshot) []*ir.ActionNode {
	return o.pass(ir.CloneTree(tree), snap)
}

func (o *Optimizer) pass(tree []*ir.ActionNode, snap *workspace.Snapshot) []*ir.ActionNode {
	seen := make(map[string]bool)
	out := make([]*ir.ActionNode, 0, len(tree))

	for _, n := range tree {
		if n.Hint(ir.HintSuperseded) != "" || n.Hint(adapter.RefHint) != "" {
			continue
		}
		// Prune the body before hashing so the dedup key is computed
		// over the same shape every pass sees.
		if n.Handler != nil {
			n.Handler = &ir.Handler{Body: o.pass(n.Handler.Body, snap)}
		}
		n.Metadata.Hints = nil
		if n.Type == ir.ActionEventHandler && !n.Element.IsZero() {
			key := string(snap.Canonical(n.Element)) + "\x00" + n.Event + "\x00" + structHash(n)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, n)
	}
	return out
}

// structHash digests a node's shape, ignoring IDs, locations, and
// metadata, so handlers that do the same thing hash alike regardless of
// where they were registered.
func structHash(n *ir.ActionNode) string {
	h := xxhash.New()
	writeNode(h, n)
	return strconv.FormatUint(h.Sum64(), 16)
}

func writeNode(h *xxhash.Digest, n *ir.ActionNode) {
	h.WriteString(string(n.Type))
	h.WriteString("\x00")
	h.WriteString(n.Event)
	h.WriteString("\x00")
	h.WriteString(n.Attribute)
	h.WriteString("\x00")
	h.WriteString(n.OldValue.String())
	h.WriteString("\x00")
	h.WriteString(n.NewValue.String())
	h.WriteString("\x1e")
	if n.Handler == nil {
		return
	}
	for _, child := range n.Handler.Body {
		h.WriteString(child.Element.String())
		h.WriteString("\x00")
		writeNode(h, child)
	}
}
