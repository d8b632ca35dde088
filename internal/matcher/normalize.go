package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTerm turns a filename reference into a search term: strip
// diacritics, drop punctuation, lowercase, collapse separators to
// single spaces. "Ramo-de-Peonías" becomes "ramo de peonias".
func NormalizeTerm(ref string) string {
	out, _, err := transform.String(stripMarks, ref)
	if err != nil {
		out = ref
	}

	var b strings.Builder
	b.Grow(len(out))
	lastSpace := true
	for _, r := range strings.ToLower(out) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// significantWords returns the words of term longer than three runes,
// used as fallback search terms when the full phrase finds nothing.
func significantWords(term string) []string {
	var words []string
	for _, w := range strings.Fields(term) {
		if len([]rune(w)) > 3 {
			words = append(words, w)
		}
	}
	return words
}
