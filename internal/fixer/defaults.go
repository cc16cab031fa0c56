package fixer

// Defaults returns the built-in fixers in canonical registration order.
// Order matters: the engine picks the first fixer that claims an issue.
func Defaults() []Fixer {
	return []Fixer{
		NewKeyboardEquivalent(),
		NewTabIndexZero(),
		NewAriaToggle(),
	}
}
