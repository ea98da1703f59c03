package domain

import "strings"

// Section is a titled, levelled span of rulebook text produced by
// heading detection. Sections are created once per document pass and
// are immutable afterwards; only their chunks are persisted.
type Section struct {
	// Title is the detected heading text.
	Title string

	// Level is the hierarchy level (1-3). Levels may skip due to
	// heuristic uncertainty; strict nesting is not guaranteed.
	Level int

	// Body is the section text. Non-empty after the builder's
	// filtering passes.
	Body string

	// PageStart is the first source page (0 when unknown).
	PageStart int

	// PageEnd is the last source page (0 when unknown).
	PageEnd int
}

// WordCount returns the number of whitespace-separated words in the body.
func (s Section) WordCount() int {
	return len(strings.Fields(s.Body))
}
