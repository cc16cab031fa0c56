package resolver

import (
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// ElementID is the canonical identity of one connected component of the
// alias graph. Analyzers compare elements by ElementID, never by raw ref.
type ElementID string

// Graph is an incremental union-find over element references. Each
// distinct ref is interned once; secondary indexes by binding, selector,
// and id value let a newly added ref union with every ref it shares a
// field with, so merging a new file is amortized near-linear in its refs.
//
// Graph is not safe for concurrent use. The workspace context serializes
// writes and hands read-only snapshots to analyzers.
type Graph struct {
	refs     []ir.ElementRef
	parent   []uint32
	rank     []uint8
	interned map[ir.ElementRef]uint32

	byBinding  map[string]uint32
	bySelector map[string]uint32
	byID       map[string]uint32

	// members tracks which ref ordinals belong to each current root.
	members map[uint32]*roaring.Bitmap
}

// NewGraph returns an empty alias graph.
func NewGraph() *Graph {
	return &Graph{
		interned:   make(map[ir.ElementRef]uint32),
		byBinding:  make(map[string]uint32),
		bySelector: make(map[string]uint32),
		byID:       make(map[string]uint32),
		members:    make(map[uint32]*roaring.Bitmap),
	}
}

// Add interns a ref and unions it with every existing ref it matches.
// Zero refs are ignored: an unbound ref can never equal anything.
func (g *Graph) Add(ref ir.ElementRef) {
	if ref.IsZero() {
		return
	}
	idx, existed := g.intern(ref)
	if existed {
		return
	}
	if ref.Binding != "" {
		if other, ok := g.byBinding[ref.Binding]; ok {
			g.union(idx, other)
		} else {
			g.byBinding[ref.Binding] = idx
		}
	}
	if ref.Selector != "" {
		if other, ok := g.bySelector[ref.Selector]; ok {
			g.union(idx, other)
		} else {
			g.bySelector[ref.Selector] = idx
		}
	}
	if ref.ID != "" {
		if other, ok := g.byID[ref.ID]; ok {
			g.union(idx, other)
		} else {
			g.byID[ref.ID] = idx
		}
	}
}

// AddTree adds every element ref appearing in the tree, handler bodies
// included.
func (g *Graph) AddTree(tree []*ir.ActionNode) {
	ir.Walk(tree, func(n *ir.ActionNode) bool {
		g.Add(n.Element)
		return true
	})
}

// Canonical returns the canonical identity for a ref. Refs never seen by
// Add resolve through the same field indexes, so a query-only ref that
// shares a binding, selector, or id with a known component maps to that
// component. Unknown refs get a self-identity so lookups never fail.
func (g *Graph) Canonical(ref ir.ElementRef) ElementID {
	if ref.IsZero() {
		return ElementID("")
	}
	if idx, ok := g.interned[ref]; ok {
		return g.idOf(g.find(idx))
	}
	if ref.Binding != "" {
		if idx, ok := g.byBinding[ref.Binding]; ok {
			return g.idOf(g.find(idx))
		}
	}
	if ref.Selector != "" {
		if idx, ok := g.bySelector[ref.Selector]; ok {
			return g.idOf(g.find(idx))
		}
	}
	if ref.ID != "" {
		if idx, ok := g.byID[ref.ID]; ok {
			return g.idOf(g.find(idx))
		}
	}
	return ElementID("ref:" + ref.String())
}

// ComponentSize reports how many distinct refs the ref's component holds.
func (g *Graph) ComponentSize(ref ir.ElementRef) int {
	idx, ok := g.interned[ref]
	if !ok {
		return 0
	}
	root := g.find(idx)
	if bm, ok := g.members[root]; ok {
		return int(bm.GetCardinality())
	}
	return 1
}

// Len returns the number of interned refs.
func (g *Graph) Len() int { return len(g.refs) }

// Clone returns an independent copy of the graph. Snapshots hand clones to
// readers so in-flight unions never surface mid-merge.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	c.refs = append([]ir.ElementRef(nil), g.refs...)
	c.parent = append([]uint32(nil), g.parent...)
	c.rank = append([]uint8(nil), g.rank...)
	for k, v := range g.interned {
		c.interned[k] = v
	}
	for k, v := range g.byBinding {
		c.byBinding[k] = v
	}
	for k, v := range g.bySelector {
		c.bySelector[k] = v
	}
	for k, v := range g.byID {
		c.byID[k] = v
	}
	for k, v := range g.members {
		c.members[k] = v.Clone()
	}
	return c
}

func (g *Graph) intern(ref ir.ElementRef) (uint32, bool) {
	if idx, ok := g.interned[ref]; ok {
		return idx, true
	}
	idx := uint32(len(g.refs))
	g.refs = append(g.refs, ref)
	g.parent = append(g.parent, idx)
	g.rank = append(g.rank, 0)
	g.interned[ref] = idx
	bm := roaring.New()
	bm.Add(idx)
	g.members[idx] = bm
	return idx, false
}

func (g *Graph) find(idx uint32) uint32 {
	for g.parent[idx] != idx {
		g.parent[idx] = g.parent[g.parent[idx]]
		idx = g.parent[idx]
	}
	return idx
}

func (g *Graph) union(a, b uint32) {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return
	}
	if g.rank[ra] < g.rank[rb] {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
	if g.rank[ra] == g.rank[rb] {
		g.rank[ra]++
	}
	if bm, ok := g.members[rb]; ok {
		g.members[ra].Or(bm)
		delete(g.members, rb)
	}
}

// idOf derives a stable ElementID for a root. The smallest ordinal in the
// component keys the identity so it survives later unions that re-root the
// component.
func (g *Graph) idOf(root uint32) ElementID {
	if bm, ok := g.members[root]; ok {
		return ElementID("e" + strconv.FormatUint(uint64(bm.Minimum()), 10))
	}
	return ElementID("e" + strconv.FormatUint(uint64(root), 10))
}
