// Package resolver decides when two element references denote the same UI
// element, both pairwise and across file boundaries via an alias graph.
package resolver

import "github.com/ariadne-dev/ariadne/pkg/ir"

// SameElement reports whether two refs denote the same element. Matching
// precedence is binding name first, then selector, then explicit id: a
// field is only compared when both sides carry it, and the first shared
// field that matches decides. Refs with differing bindings can still match
// through a shared selector or id, which is what links `submitButton` in
// one file to `btn` in another when both resolve to the same selector.
//
// Returns false when no comparable field exists on both sides. That
// conservative default sacrifices recall to avoid merging distinct
// elements, which would suppress real issues.
//
// The relation is reflexive and symmetric but not transitive; transitivity
// is restored at the canonical-identity layer by the alias Graph.
func SameElement(a, b ir.ElementRef) bool {
	if a.Binding != "" && b.Binding != "" && a.Binding == b.Binding {
		return true
	}
	if a.Selector != "" && b.Selector != "" && a.Selector == b.Selector {
		return true
	}
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}
	return false
}
