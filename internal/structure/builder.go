// Package structure infers a hierarchical section structure from raw,
// layout-mangled rulebook text.
//
// The builder is a small state machine folded over the line stream:
// headings flush the accumulated buffer as a completed section, content
// lines append to it, page markers update page tracking out-of-band.
// Four repair passes then prune over-detected headings, merge
// undersized sections, split oversized ones and drop residual
// artifacts.
package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/structure/lineclass"
	"github.com/ludica-labs/regle/internal/textutil"
)

// Default word-count thresholds for the repair passes.
const (
	// DefaultMinSectionWords demotes detected headings whose body stayed
	// under this count (look-ahead pruning).
	DefaultMinSectionWords = 10

	// DefaultMergeBelowWords merges surviving sections below this count
	// into their predecessor.
	DefaultMergeBelowWords = 25

	// DefaultMaxSectionWords splits sections above this count.
	DefaultMaxSectionWords = 350

	// DefaultSplitTargetWords is the per-piece budget when splitting.
	DefaultSplitTargetWords = 200
)

// pageMarkerRe matches the internal out-of-band page marker emitted by
// JoinPages. Markers are control tokens, never content.
var pageMarkerRe = regexp.MustCompile(`^\[\[PAGE (\d+)\]\]$`)

// JoinPages concatenates extracted pages into one text stream with
// internal page markers, ready for the builder. The builder strips the
// markers back out into the sections' page ranges.
func JoinPages(pages []domain.Page) string {
	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, "[[PAGE %d]]\n", p.Number)
		b.WriteString(strings.TrimRight(p.Text, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// Builder turns raw text into an ordered flat list of sections.
type Builder struct {
	minSectionWords  int
	mergeBelowWords  int
	maxSectionWords  int
	splitTargetWords int
	classifier       *lineclass.Classifier
}

// Option configures the builder.
type Option func(*Builder)

// WithMinSectionWords sets the look-ahead pruning threshold.
func WithMinSectionWords(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.minSectionWords = n
		}
	}
}

// WithMergeBelowWords sets the merge threshold.
func WithMergeBelowWords(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.mergeBelowWords = n
		}
	}
}

// WithMaxSectionWords sets the split threshold.
func WithMaxSectionWords(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxSectionWords = n
		}
	}
}

// WithSplitTargetWords sets the per-piece word budget when splitting.
func WithSplitTargetWords(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.splitTargetWords = n
		}
	}
}

// WithClassifier replaces the default line classifier.
func WithClassifier(c *lineclass.Classifier) Option {
	return func(b *Builder) {
		if c != nil {
			b.classifier = c
		}
	}
}

// New creates a builder with default thresholds.
func New(opts ...Option) *Builder {
	b := &Builder{
		minSectionWords:  DefaultMinSectionWords,
		mergeBelowWords:  DefaultMergeBelowWords,
		maxSectionWords:  DefaultMaxSectionWords,
		splitTargetWords: DefaultSplitTargetWords,
		classifier:       lineclass.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builderState is the accumulation state threaded through the line fold.
type builderState struct {
	title     string
	level     int
	buffer    []string
	pageStart int
	lastPage  int
	curPage   int
	prevBlank bool
	sections  []domain.Section
}

// flush completes the current section and resets the buffer for the
// next heading.
func (st *builderState) flush() {
	body := strings.TrimSpace(strings.Join(st.buffer, "\n"))
	if st.title != "" || body != "" {
		title := st.title
		level := st.level
		if title == "" {
			// Preamble before the first heading.
			level = 1
		}
		st.sections = append(st.sections, domain.Section{
			Title:     title,
			Level:     level,
			Body:      body,
			PageStart: st.pageStart,
			PageEnd:   st.lastPage,
		})
	}
	st.buffer = st.buffer[:0]
	st.pageStart = st.curPage
	st.lastPage = st.curPage
}

// Build runs the full pipeline: classification fold, then the four
// repair passes. documentName titles the preamble and the zero-heading
// fallback section. Building is deterministic: identical input and
// configuration always yield identical sections.
func (b *Builder) Build(text, documentName string) []domain.Section {
	st := &builderState{prevBlank: true}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		if m := pageMarkerRe.FindStringSubmatch(line); m != nil {
			page, _ := strconv.Atoi(m[1])
			st.curPage = page
			if st.pageStart == 0 {
				st.pageStart = page
			}
			continue
		}

		if line == "" {
			// Keep one empty entry so flush reconstructs the paragraph
			// boundary; the split passes rely on it.
			if !st.prevBlank && len(st.buffer) > 0 {
				st.buffer = append(st.buffer, "")
			}
			st.prevBlank = true
			continue
		}

		ctx := lineclass.Context{PrevBlank: st.prevBlank}
		st.prevBlank = false

		if title, rest, ok := lineclass.SplitInlineTitle(line); ok {
			st.flush()
			st.title = title
			st.level = 2
			st.buffer = append(st.buffer, rest)
			if st.curPage > 0 {
				st.lastPage = st.curPage
			}
			continue
		}

		switch res := b.classifier.Classify(line, ctx); res.Kind {
		case lineclass.Heading:
			st.flush()
			st.title = res.Title
			st.level = res.Level
		case lineclass.Content:
			st.buffer = append(st.buffer, line)
			if st.curPage > 0 {
				st.lastPage = st.curPage
			}
		case lineclass.Noise:
			// dropped
		}
	}
	st.flush()

	sections := st.sections
	if len(sections) == 0 {
		return nil
	}

	// A document with no detected headings becomes a single section
	// carrying the document's own name.
	for i := range sections {
		if sections[i].Title == "" {
			sections[i].Title = documentName
		}
	}

	sections = b.pruneShort(sections)
	sections = b.mergeShort(sections)
	sections = b.splitLong(sections)
	sections = b.filterResidual(sections)
	return sections
}

// pruneShort is the look-ahead pruning pass: a section whose body has
// fewer than minSectionWords is demoted - its title and body are folded
// into the previous section's body. Heuristics over-detect headings
// from short, heading-like content lines; folding is the safe
// structural fallback.
func (b *Builder) pruneShort(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.WordCount() >= b.minSectionWords {
			out = append(out, sec)
			continue
		}
		folded := strings.TrimSpace(sec.Title + "\n" + sec.Body)
		if len(out) == 0 {
			// First section: fold the title into its own body.
			sec.Body = folded
			out = append(out, sec)
			continue
		}
		prev := &out[len(out)-1]
		prev.Body = strings.TrimSpace(prev.Body + "\n" + folded)
		if sec.PageEnd > prev.PageEnd {
			prev.PageEnd = sec.PageEnd
		}
	}
	return out
}

// mergeShort appends any remaining section below mergeBelowWords
// wholesale (title and body) onto the previous section's body.
func (b *Builder) mergeShort(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.WordCount() >= b.mergeBelowWords || len(out) == 0 {
			out = append(out, sec)
			continue
		}
		prev := &out[len(out)-1]
		prev.Body = strings.TrimSpace(prev.Body + "\n\n" + sec.Title + "\n" + sec.Body)
		if sec.PageEnd > prev.PageEnd {
			prev.PageEnd = sec.PageEnd
		}
	}
	return out
}

// splitLong divides sections above maxSectionWords at paragraph
// boundaries into pieces targeting splitTargetWords, carrying a
// one-paragraph overlap into each next piece for context continuity.
func (b *Builder) splitLong(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.WordCount() <= b.maxSectionWords {
			out = append(out, sec)
			continue
		}

		paragraphs := SplitParagraphs(sec.Body)
		var pieces []string
		var current []string
		words := 0
		for _, para := range paragraphs {
			pw := textutil.WordCount(para)
			if words > 0 && words+pw > b.splitTargetWords {
				pieces = append(pieces, strings.Join(current, "\n\n"))
				// One-paragraph overlap seeds the next piece.
				last := current[len(current)-1]
				current = []string{last}
				words = textutil.WordCount(last)
			}
			current = append(current, para)
			words += pw
		}
		if len(current) > 0 {
			pieces = append(pieces, strings.Join(current, "\n\n"))
		}

		for i, piece := range pieces {
			title := sec.Title
			if i > 0 {
				title = fmt.Sprintf("%s (cont. %d)", sec.Title, i)
			}
			out = append(out, domain.Section{
				Title:     title,
				Level:     sec.Level,
				Body:      piece,
				PageStart: sec.PageStart,
				PageEnd:   sec.PageEnd,
			})
		}
	}
	return out
}

// filterResidual drops sections still below the minimum after all
// merging (residual artifacts).
func (b *Builder) filterResidual(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.WordCount() >= b.minSectionWords {
			out = append(out, sec)
		}
	}
	return out
}

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits text at blank-line boundaries, dropping empty
// fragments.
func SplitParagraphs(text string) []string {
	parts := paragraphSplitRe.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HierarchyPath derives the breadcrumb of ancestor titles for the
// section at idx by scanning backward through the flat list for the
// nearest section of each lower level. Titles are joined by " > ".
func HierarchyPath(sections []domain.Section, idx int) string {
	if idx < 0 || idx >= len(sections) {
		return ""
	}
	path := []string{sections[idx].Title}
	level := sections[idx].Level
	for i := idx - 1; i >= 0 && level > 1; i-- {
		if sections[i].Level < level {
			path = append([]string{sections[i].Title}, path...)
			level = sections[i].Level
		}
	}
	return strings.Join(path, " > ")
}
