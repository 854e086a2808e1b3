package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFolder decomposes accented runes (NFD) and drops the trailing
// combining marks, turning "Société" into "Societe" before any
// corporate-form or abbreviation matching runs.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining diacritical marks from s, leaving the
// base Latin letters behind. Non-Latin scripts pass through unchanged.
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseWhitespace normalizes runs of whitespace to a single space and
// trims the result.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
