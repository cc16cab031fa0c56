// Package adapter defines the front-end contract: per-language adapters
// turn source text into IR trees. The engine never sees source syntax,
// only the trees adapters hand it.
package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Adapter converts source code in one language into an IR tree.
// Implementations must be safe for concurrent use; discovery parses files
// on a worker pool.
type Adapter interface {
	// Language returns the language key the adapter handles.
	Language() string
	// Extensions lists the file extensions (with dot) the adapter claims.
	Extensions() []string
	// Create parses source into an IR tree. A non-nil error means the
	// whole file is excluded from the merged context.
	Create(source []byte, path string) ([]*ir.ActionNode, error)
}

// Registry maps languages and file extensions to adapters. It is built
// once at session start; registration order is preserved for listing.
type Registry struct {
	order  []Adapter
	byLang map[string]Adapter
	byExt  map[string]Adapter
}

// NewRegistry builds a registry from the given adapters. A later adapter
// claiming an extension already taken does not displace the earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{
		byLang: make(map[string]Adapter),
		byExt:  make(map[string]Adapter),
	}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter.
func (r *Registry) Register(a Adapter) {
	r.order = append(r.order, a)
	if _, ok := r.byLang[a.Language()]; !ok {
		r.byLang[a.Language()] = a
	}
	for _, ext := range a.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; !ok {
			r.byExt[ext] = a
		}
	}
}

// ForLanguage returns the adapter registered for a language key.
func (r *Registry) ForLanguage(lang string) (Adapter, bool) {
	a, ok := r.byLang[lang]
	return a, ok
}

// ForPath returns the adapter claiming the path's extension. Multi-part
// extensions (".ir.json") win over plain ones (".json"): the longest
// registered suffix matches.
func (r *Registry) ForPath(path string) (Adapter, bool) {
	name := strings.ToLower(filepath.Base(path))
	var best Adapter
	bestLen := 0
	for ext, a := range r.byExt {
		if strings.HasSuffix(name, ext) && len(ext) > bestLen {
			best, bestLen = a, len(ext)
		}
	}
	return best, best != nil
}

// Languages lists registered language keys in registration order.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.order))
	seen := make(map[string]bool)
	for _, a := range r.order {
		if !seen[a.Language()] {
			seen[a.Language()] = true
			langs = append(langs, a.Language())
		}
	}
	return langs
}

// Create parses a file with the adapter claiming its extension.
func (r *Registry) Create(source []byte, path string) ([]*ir.ActionNode, error) {
	a, ok := r.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("no adapter for %s", path)
	}
	return a.Create(source, path)
}

// RefHint is the internal metadata key carrier nodes use to mark
// file references (linked scripts, imported modules) that exist only to
// drive cross-file discovery. The optimizer strips such nodes before
// codegen.
const RefHint = "fileRef"
