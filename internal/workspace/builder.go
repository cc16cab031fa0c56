package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"

	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// ErrFileCeiling is returned when discovery stops early because the
// configured file ceiling was reached.
var ErrFileCeiling = errors.New("workspace: file ceiling reached")

// ErrRootUnparsed is returned when the root document has a recorded
// parse failure, so there is no tree to discover from.
var ErrRootUnparsed = errors.New("workspace: root parse failed")

// Builder feeds the Context: it parses files through the adapter registry
// and walks reference targets outward from a root document until the
// dependency closure is exhausted, cancelled, or capped.
type Builder struct {
	ctx      *Context
	registry *adapter.Registry
	maxFiles int
	include  []string
	exclude  []string
	workers  int
	readFile func(string) ([]byte, error)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMaxFiles bounds how many files discovery will merge. Zero means
// unbounded.
func WithMaxFiles(n int) BuilderOption {
	return func(b *Builder) { b.maxFiles = n }
}

// WithIncludePatterns restricts discovery to paths matching any pattern.
func WithIncludePatterns(patterns []string) BuilderOption {
	return func(b *Builder) { b.include = patterns }
}

// WithExcludePatterns drops discovered paths matching any pattern.
func WithExcludePatterns(patterns []string) BuilderOption {
	return func(b *Builder) { b.exclude = patterns }
}

// WithWorkers sets the parse pool size.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) { b.workers = n }
}

// WithReadFile replaces filesystem reads, for tests.
func WithReadFile(fn func(string) ([]byte, error)) BuilderOption {
	return func(b *Builder) { b.readFile = fn }
}

// NewBuilder creates a builder writing into ctx.
func NewBuilder(ctx *Context, registry *adapter.Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		ctx:      ctx,
		registry: registry,
		workers:  4,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Context returns the context the builder writes into.
func (b *Builder) Context() *Context { return b.ctx }

// AddSource parses one file's source and merges it. Parse failures are
// recorded and returned; the context stays usable.
func (b *Builder) AddSource(path string, source []byte) error {
	tree, err := b.registry.Create(source, path)
	if err != nil {
		b.ctx.RecordFailure(path, err)
		return err
	}
	b.ctx.AddTree(path, tree)
	return nil
}

// AddFile reads and parses one file from disk.
func (b *Builder) AddFile(path string) error {
	source, err := b.readFile(path)
	if err != nil {
		b.ctx.RecordFailure(path, err)
		return err
	}
	return b.AddSource(path, source)
}

// Discover walks the root document's reference closure breadth-first,
// parsing newly found files on a worker pool and merging them one at a
// time (the Context is single-writer). It returns nil once the closure is
// complete, ErrFileCeiling when capped, ErrRootUnparsed when the root
// carries a recorded parse failure, or the context error when cancelled. Cancelled discovery never mutates the Context after the
// cancellation is observed, and never marks the root complete.
func (b *Builder) Discover(ctx context.Context, root string) error {
	if !b.ctx.Has(root) {
		// A recorded failure means the caller already supplied source
		// that did not parse. Reading the saved file here would
		// silently substitute on-disk content for that source.
		if b.ctx.Failed(root) {
			return ErrRootUnparsed
		}
		if err := b.AddFile(root); err != nil {
			return err
		}
	}

	seen := map[string]bool{root: true}
	queue := b.referencesOf(root, b.ctx.Snapshot().Tree(root))
	merged := b.ctx.Len()

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Apply the ceiling to this wave.
		batch := make([]string, 0, len(queue))
		for _, path := range queue {
			if seen[path] {
				continue
			}
			seen[path] = true
			if b.excluded(path) {
				continue
			}
			if b.maxFiles > 0 && merged+len(batch) >= b.maxFiles {
				b.ctx.SetCapped()
				return ErrFileCeiling
			}
			batch = append(batch, path)
		}
		queue = queue[:0]
		if len(batch) == 0 {
			break
		}

		results := b.parseBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, r := range results {
			if r.err != nil {
				b.ctx.RecordFailure(r.path, r.err)
				continue
			}
			b.ctx.AddTree(r.path, r.tree)
			merged++
			queue = append(queue, b.referencesOf(r.path, r.tree)...)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	b.ctx.SetComplete(root)
	return nil
}

type parseResult struct {
	path string
	tree []*ir.ActionNode
	err  error
}

// parseBatch parses a wave of files concurrently. Parsing is pure; all
// Context mutation happens on the calling goroutine afterwards.
func (b *Builder) parseBatch(ctx context.Context, paths []string) []parseResult {
	results := make([]parseResult, 0, len(paths))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(b.workers)
	for _, path := range paths {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			r := parseResult{path: path}
			source, err := b.readFile(path)
			if err != nil {
				r.err = err
			} else {
				r.tree, r.err = b.registry.Create(source, path)
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		})
	}
	p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	return results
}

// referencesOf finds the files a tree points at: explicit reference
// metadata plus any node whose location names another file. Targets are
// resolved relative to the referencing file; URLs and absolute web paths
// are not files and are skipped.
func (b *Builder) referencesOf(from string, tree []*ir.ActionNode) []string {
	dir := filepath.Dir(from)
	seen := make(map[string]bool)
	var out []string

	add := func(target string) {
		if target == "" || strings.Contains(target, "://") || strings.HasPrefix(target, "/") {
			return
		}
		resolved := filepath.Clean(filepath.Join(dir, target))
		if !seen[resolved] {
			seen[resolved] = true
			out = append(out, resolved)
		}
	}

	ir.Walk(tree, func(n *ir.ActionNode) bool {
		for _, ref := range n.Metadata.References {
			add(ref)
		}
		if n.Location.File != "" && n.Location.File != from {
			// Already workspace-relative, not relative to the node.
			resolved := filepath.Clean(n.Location.File)
			if !seen[resolved] {
				seen[resolved] = true
				out = append(out, resolved)
			}
		}
		return true
	})
	return out
}

// excluded applies include/exclude globs to a discovered path.
func (b *Builder) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range b.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	if len(b.include) == 0 {
		return false
	}
	for _, pattern := range b.include {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return false
		}
	}
	return true
}
