package chunker

import (
	"strings"
	"unicode"
)

// abbreviations that end with a period without ending a sentence.
// Compared case-insensitively against the last token before the period.
var abbreviations = map[string]struct{}{
	"m":    {},
	"mm":   {},
	"mme":  {},
	"mlle": {},
	"dr":   {},
	"st":   {},
	"etc":  {},
	"ex":   {},
	"cf":   {},
	"p":    {},
	"pp":   {},
	"art":  {},
	"fig":  {},
	"n°":   {},
	"vol":  {},
}

// SplitSentences splits a paragraph into sentences at '.', '!' and '?'
// boundaries. Periods after common French abbreviations and inside
// numeric listings ("2.5 cm", "1. 2. 3.") do not end a sentence.
// Trailing closing quotes and brackets stay attached to their sentence.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		if r == '.' && !endsSentence(runes, start, i) {
			continue
		}

		// Absorb consecutive terminators ("?!", "...") and trailing
		// closers.
		end := i + 1
		for end < len(runes) && (runes[end] == '.' || runes[end] == '!' || runes[end] == '?') {
			end++
		}
		for end < len(runes) {
			// French typography separates closing quotes with a space.
			j := end
			for j < len(runes) && runes[j] == ' ' {
				j++
			}
			if j < len(runes) && isCloser(runes[j]) {
				end = j + 1
				continue
			}
			break
		}

		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		i = end - 1
		start = end
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// endsSentence reports whether the period at pos terminates a sentence,
// given the sentence started at start.
func endsSentence(runes []rune, start, pos int) bool {
	// Numeric context: "2.5", "v1.0" or a bare list marker "3."
	if pos > start && unicode.IsDigit(runes[pos-1]) {
		if pos+1 < len(runes) && unicode.IsDigit(runes[pos+1]) {
			return false
		}
		// "3." alone before a space reads as a listing marker when the
		// token is purely numeric.
		tok := lastToken(runes, start, pos)
		if isAllDigits(tok) {
			return false
		}
	}

	tok := strings.ToLower(lastToken(runes, start, pos))
	if _, ok := abbreviations[tok]; ok {
		return false
	}

	// A single capital letter reads as an initial ("J. Dupont").
	if len([]rune(tok)) == 1 && tok != "" {
		if r := []rune(tok)[0]; unicode.IsLetter(r) {
			return false
		}
	}

	return true
}

// lastToken returns the run of non-space runes immediately before pos.
func lastToken(runes []rune, start, pos int) string {
	i := pos
	for i > start && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return string(runes[i:pos])
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '»', '”', '’', ')', ']':
		return true
	}
	return false
}
