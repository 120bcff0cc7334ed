package ocr

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripControl drops control characters other than line breaks and tabs.
var stripControl = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t'
}))

// Normalize folds compatibility characters common in PDF text layers
// (ligatures, full-width digits, non-breaking spaces) with NFKC and strips
// stray control characters so the text is safe to embed in a prompt.
func Normalize(text string) string {
	t := transform.Chain(norm.NFKC, stripControl)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
