package services

import "unicode/utf8"

// TruncationMarker is appended to document text cut to fit the context budget.
const TruncationMarker = "\n[Truncated]"

// ContextWindower bounds document text to a character budget.
// The cut is a raw character offset and may split a page or sentence.
type ContextWindower struct {
	maxChars int
}

// NewContextWindower creates a windower with the given budget in characters.
// A non-positive budget selects the default.
func NewContextWindower(maxChars int) *ContextWindower {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &ContextWindower{maxChars: maxChars}
}

// MaxChars returns the budget.
func (w *ContextWindower) MaxChars() int {
	return w.maxChars
}

// Window returns text unchanged when it fits the budget. Otherwise it returns
// the first MaxChars characters followed by TruncationMarker, and true.
func (w *ContextWindower) Window(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= w.maxChars {
		return text, false
	}

	n := 0
	for i := range text {
		if n == w.maxChars {
			return text[:i] + TruncationMarker, true
		}
		n++
	}
	return text, false
}
