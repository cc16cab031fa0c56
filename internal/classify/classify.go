// Package classify isolates keyword heuristics behind an interface so
// analyzers that lean on name matching can have the heuristic swapped out
// or disabled without touching their logic.
package classify

import (
	"strings"

	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// Category is a coarse classification of what a name appears to concern.
type Category string

const (
	CategoryNone         Category = ""
	CategoryLiveRegion   Category = "live-region"
	CategoryCarousel     Category = "carousel"
	CategoryNotification Category = "notification"
	CategoryDisclosure   Category = "disclosure"
)

// Classifier assigns a confidence-tagged category to an identifier or
// selector. Implementations must be deterministic.
type Classifier interface {
	Classify(name string) (Category, ir.Confidence)
}

// Disabled ignores every name.
type Disabled struct{}

func (Disabled) Classify(string) (Category, ir.Confidence) {
	return CategoryNone, ir.ConfidenceLow
}

// Keywords is the default keyword-based classifier.
type Keywords struct{}

var keywordCategories = []struct {
	category Category
	words    []string
}{
	{CategoryCarousel, []string{"carousel", "slider", "slideshow", "rotator", "ticker"}},
	{CategoryNotification, []string{"toast", "notification", "alert", "snackbar", "banner"}},
	{CategoryLiveRegion, []string{"live", "status", "announce"}},
	{CategoryDisclosure, []string{"accordion", "dropdown", "menu", "expand", "collapse", "toggle"}},
}

// Classify matches known interaction-pattern keywords in the name. All
// results are LOW confidence: name matching is a heuristic, never a
// structural fact.
func (Keywords) Classify(name string) (Category, ir.Confidence) {
	lowered := strings.ToLower(name)
	for _, kc := range keywordCategories {
		for _, w := range kc.words {
			if strings.Contains(lowered, w) {
				return kc.category, ir.ConfidenceLow
			}
		}
	}
	return CategoryNone, ir.ConfidenceLow
}
