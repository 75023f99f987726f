package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormaliseName turns an extracted name into a folder name token:
// accents folded, upper-cased, everything but A-Z and whitespace dropped,
// and whitespace runs collapsed to single underscores.
//
//	"Rāhul  kumar-Sharma" -> "RAHUL_KUMARSHARMA"
func NormaliseName(raw string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		raw,
	)
	if err != nil {
		folded = raw
	}
	upper := cases.Upper(language.Und).String(folded)

	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}
