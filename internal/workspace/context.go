// Package workspace owns the merged cross-file analysis context: every IR
// tree currently known for the workspace, the element alias graph that
// links refs across files, and the bookkeeping that tells the scheduler
// how trustworthy the context is.
package workspace

import (
	"sort"
	"sync"

	"github.com/ariadne-dev/ariadne/internal/resolver"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Context is the one shared mutable resource in the pipeline. Writes are
// serialized by its mutex; readers take immutable Snapshots, so analyzers
// never observe a partially merged alias graph. One Context exists per
// workspace session and is discarded when the session closes.
type Context struct {
	mu       sync.RWMutex
	trees    map[string][]*ir.ActionNode
	graph    *resolver.Graph
	complete map[string]bool
	failures map[string]string
	capped   bool
}

// NewContext returns an empty analysis context.
func NewContext() *Context {
	return &Context{
		trees:    make(map[string][]*ir.ActionNode),
		graph:    resolver.NewGraph(),
		complete: make(map[string]bool),
		failures: make(map[string]string),
	}
}

// AddTree merges one file's tree. Re-adding a path replaces its previous
// tree; the alias graph keeps the old refs, which is harmless because
// union-find only ever grows components.
func (c *Context) AddTree(path string, tree []*ir.ActionNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trees[path] = tree
	c.graph.AddTree(tree)
	delete(c.failures, path)
}

// RecordFailure notes a front-end parse failure. The file is excluded
// from the merged context and results are capped at MEDIUM confidence.
func (c *Context) RecordFailure(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.trees, path)
	if err != nil {
		c.failures[path] = err.Error()
	}
}

// SetComplete marks a root document's dependency closure as fully
// discovered.
func (c *Context) SetComplete(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.complete[root] = true
}

// Invalidate clears completeness for a root after an edit supersedes the
// context that produced it.
func (c *Context) Invalidate(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.complete, root)
}

// SetCapped records that the file ceiling stopped discovery early. Once
// capped, no session result may claim HIGH confidence.
func (c *Context) SetCapped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capped = true
}

// Failed reports whether a file has a recorded parse failure and no
// merged tree.
func (c *Context) Failed(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.failures[path]
	return ok
}

// Has reports whether a file's tree is already merged.
func (c *Context) Has(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.trees[path]
	return ok
}

// Len returns the number of merged files.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.trees)
}

// Snapshot returns an immutable view of the current context. Trees are
// shared (they are immutable by convention); the alias graph is cloned so
// later unions cannot surface mid-read.
func (c *Context) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	trees := make(map[string][]*ir.ActionNode, len(c.trees))
	for k, v := range c.trees {
		trees[k] = v
	}
	complete := make(map[string]bool, len(c.complete))
	for k, v := range c.complete {
		complete[k] = v
	}
	failures := make(map[string]string, len(c.failures))
	for k, v := range c.failures {
		failures[k] = v
	}
	return &Snapshot{
		trees:    trees,
		graph:    c.graph.Clone(),
		complete: complete,
		failures: failures,
		capped:   c.capped,
	}
}

// Snapshot is a read-only view of the context at one instant.
type Snapshot struct {
	trees    map[string][]*ir.ActionNode
	graph    *resolver.Graph
	complete map[string]bool
	failures map[string]string
	capped   bool
}

// EmptySnapshot returns a snapshot with no context at all, used by
// file-only analysis of a single tree.
func EmptySnapshot() *Snapshot {
	return NewContext().Snapshot()
}

// Files lists merged file paths in sorted order.
func (s *Snapshot) Files() []string {
	files := make([]string, 0, len(s.trees))
	for f := range s.trees {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Tree returns one file's tree, or nil.
func (s *Snapshot) Tree(path string) []*ir.ActionNode {
	return s.trees[path]
}

// Canonical resolves a ref to its cross-file canonical identity.
func (s *Snapshot) Canonical(ref ir.ElementRef) resolver.ElementID {
	return s.graph.Canonical(ref)
}

// NodesFor returns every node across all merged trees whose element
// resolves to the given identity, in (file, source order).
func (s *Snapshot) NodesFor(id resolver.ElementID) []*ir.ActionNode {
	var out []*ir.ActionNode
	for _, f := range s.Files() {
		ir.Walk(s.trees[f], func(n *ir.ActionNode) bool {
			if !n.Element.IsZero() && s.graph.Canonical(n.Element) == id {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// IsComplete reports whether the root's dependency closure finished
// discovery with no pending work.
func (s *Snapshot) IsComplete(root string) bool {
	return s.complete[root]
}

// Failures returns parse failures by file.
func (s *Snapshot) Failures() map[string]string {
	return s.failures
}

// Capped reports whether the file ceiling cut discovery short.
func (s *Snapshot) Capped() bool {
	return s.capped
}

// Ceiling computes the maximum confidence any structural finding against
// this root may claim: HIGH only with a complete closure, no parse
// failures, and no file cap.
func (s *Snapshot) Ceiling(root string) ir.Confidence {
	if s.complete[root] && !s.capped && len(s.failures) == 0 {
		return ir.ConfidenceHigh
	}
	return ir.ConfidenceMedium
}
