package strategy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so vocabulary tests survive the
// accent inconsistencies of scraped text ("LEILÃO", "leilao", "Leilão").
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and removes accents.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// containsFolded reports keyword membership under accent folding.
func containsFolded(haystack, keyword string) bool {
	return strings.Contains(fold(haystack), fold(keyword))
}
