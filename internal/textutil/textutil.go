// Package textutil provides text normalisation shared by the section
// builder, the classifiers and the retrieval engine.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases the string and strips diacritics ("Matériel" -> "materiel").
// Comparisons against keyword lists and FTS5 queries go through Fold so the
// accent handling matches the index tokeniser (unicode61 remove_diacritics).
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Mn removal cannot fail on valid UTF-8; fall back to the input.
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokenize splits a string into lowercased, accent-stripped alphanumeric
// tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MatchQuery normalises a free-text query into a boolean FTS5 expression:
// accent-stripped lowercase tokens of at least two characters joined with
// AND. Returns the empty string when nothing remains, which callers must
// treat as "no sparse results" rather than passing it to the index.
func MatchQuery(query string) string {
	tokens := Tokenize(query)
	kept := tokens[:0]
	for _, t := range tokens {
		if len(t) >= 2 {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, " AND ")
}

// WordCount returns the number of whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
