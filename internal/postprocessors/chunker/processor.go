// Package chunker provides a word-bounded, sentence-respecting text
// chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// Default chunking parameters, in words.
const (
	// DefaultTargetWords is the word budget a chunk accumulates toward.
	DefaultTargetWords = 300

	// DefaultMaxWords is the bound above which a section must be split
	// and above which a single paragraph is split at sentence
	// boundaries.
	DefaultMaxWords = 450

	// DefaultMinWords is the floor below which a trailing fragment is
	// merged into the previous chunk instead of emitted alone.
	DefaultMinWords = 50

	// DefaultOverlapWords is the number of trailing words carried into
	// the next chunk as a context seed.
	DefaultOverlapWords = 75
)

// Processor splits one section into bounded, overlapping chunks.
// It implements the PostProcessor interface. Chunking is deterministic:
// a given section with fixed configuration always produces identical
// chunks.
type Processor struct {
	targetWords  int
	maxWords     int
	minWords     int
	overlapWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetWords sets the per-chunk word budget.
func WithTargetWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetWords = n
		}
	}
}

// WithMaxWords sets the single-chunk bound.
func WithMaxWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxWords = n
		}
	}
}

// WithMinWords sets the trailing-fragment floor.
func WithMinWords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minWords = n
		}
	}
}

// WithOverlapWords sets the overlap carried between chunks.
func WithOverlapWords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapWords = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		targetWords:  DefaultTargetWords,
		maxWords:     DefaultMaxWords,
		minWords:     DefaultMinWords,
		overlapWords: DefaultOverlapWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't swallow the whole budget
	if p.overlapWords >= p.targetWords {
		p.overlapWords = p.targetWords / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the section into chunks. Input chunks are ignored;
// this processor creates new chunks from the section body.
func (p *Processor) Process(_ context.Context, section *domain.Section, hierarchyPath string, _ []domain.Chunk) ([]domain.Chunk, error) {
	if section == nil || strings.TrimSpace(section.Body) == "" {
		// Empty section produces no chunks
		return nil, nil
	}

	contents := p.splitContents(section.Body)

	chunks := make([]domain.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = domain.Chunk{
			Content:       content,
			SectionTitle:  section.Title,
			HierarchyPath: hierarchyPath,
			Index:         i,
			Count:         len(contents),
			PageStart:     section.PageStart,
			PageEnd:       section.PageEnd,
		}
	}
	return chunks, nil
}

// splitContents produces the chunk texts for one section body.
func (p *Processor) splitContents(body string) []string {
	if len(strings.Fields(body)) <= p.maxWords {
		return []string{strings.TrimSpace(body)}
	}

	// Paragraphs are the accumulation unit; a paragraph that alone
	// exceeds the max is broken into sentences first, and a run-on
	// sentence still above the max is chopped by words.
	var units []string
	for _, para := range splitParagraphs(body) {
		if len(strings.Fields(para)) <= p.maxWords {
			units = append(units, para)
			continue
		}
		for _, sent := range SplitSentences(para) {
			w := strings.Fields(sent)
			for len(w) > p.maxWords {
				units = append(units, strings.Join(w[:p.maxWords], " "))
				w = w[p.maxWords:]
			}
			units = append(units, strings.Join(w, " "))
		}
	}

	var chunks []string
	var cur []string // words of the chunk being accumulated
	fresh := 0       // words in cur that are not overlap seed

	flush := func() {
		chunks = append(chunks, strings.Join(cur, " "))
		seed := p.overlapWords
		if seed > len(cur) {
			seed = len(cur)
		}
		cur = append([]string(nil), cur[len(cur)-seed:]...)
		fresh = 0
	}

	for _, unit := range units {
		words := strings.Fields(unit)
		if fresh > 0 && len(cur)+len(words) > p.targetWords {
			flush()
		}
		if fresh == 0 && len(cur)+len(words) > p.maxWords {
			// The seed is context only; shrink it so seed plus a
			// near-max unit stays within the bound.
			keep := p.maxWords - len(words)
			if keep < 0 {
				keep = 0
			}
			cur = cur[len(cur)-keep:]
		}
		cur = append(cur, words...)
		fresh += len(words)
	}

	if fresh > 0 {
		if fresh < p.minWords && len(chunks) > 0 &&
			len(strings.Fields(chunks[len(chunks)-1]))+fresh <= p.maxWords {
			// Trailing fragment: fold the new words into the previous
			// chunk rather than emitting a runt. The seed words are
			// already at the end of that chunk.
			chunks[len(chunks)-1] += " " + strings.Join(cur[len(cur)-fresh:], " ")
		} else {
			chunks = append(chunks, strings.Join(cur, " "))
		}
	}

	return chunks
}

var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs splits at blank-line boundaries, dropping empties.
// The chunker keeps its own copy so it depends only on the section
// type, not on the builder package.
func splitParagraphs(text string) []string {
	parts := paragraphRe.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
