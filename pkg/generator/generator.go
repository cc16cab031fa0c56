// Package generator defines the back-end contract: per-language generators
// turn IR trees back into source text. Generation is the inverse of the
// adapter front-end, and like the front-end it never inspects anything but
// the tree.
package generator

import (
	"fmt"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Generator renders an IR tree as source text in one target language.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Language returns the language key the generator emits.
	Language() string
	// Generate renders the tree. The file name travels into formats that
	// carry an envelope; snippet generators may ignore it.
	Generate(file string, tree []*ir.ActionNode) (string, error)
}

// Registry maps language keys to generators. Registration order is
// preserved for listing; the first generator for a language wins.
type Registry struct {
	order  []Generator
	byLang map[string]Generator
}

// NewRegistry builds a registry from the given generators.
func NewRegistry(generators ...Generator) *Registry {
	r := &Registry{byLang: make(map[string]Generator)}
	for _, g := range generators {
		r.Register(g)
	}
	return r
}

// Register adds a generator.
func (r *Registry) Register(g Generator) {
	r.order = append(r.order, g)
	if _, ok := r.byLang[g.Language()]; !ok {
		r.byLang[g.Language()] = g
	}
}

// ForLanguage returns the generator registered for a language key.
func (r *Registry) ForLanguage(lang string) (Generator, bool) {
	g, ok := r.byLang[lang]
	return g, ok
}

// Languages lists registered language keys in registration order.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.order))
	seen := make(map[string]bool)
	for _, g := range r.order {
		if !seen[g.Language()] {
			seen[g.Language()] = true
			langs = append(langs, g.Language())
		}
	}
	return langs
}

// Generate renders a tree with the generator for the given language.
func (r *Registry) Generate(lang, file string, tree []*ir.ActionNode) (string, error) {
	g, ok := r.ForLanguage(lang)
	if !ok {
		return "", fmt.Errorf("no generator for %s", lang)
	}
	return g.Generate(file, tree)
}
