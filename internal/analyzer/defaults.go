package analyzer

import "github.com/ariadne-dev/ariadne/internal/classify"

// Defaults returns the built-in analyzer registry in its canonical
// registration order.
func Defaults(classifier classify.Classifier) []Analyzer {
	return []Analyzer{
		NewKeyboard(),
		NewTabIndex(),
		NewAriaState(),
		NewFocus(),
		NewContextChange(),
		NewTiming(classifier),
	}
}
