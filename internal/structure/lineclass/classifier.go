// Package lineclass classifies single lines of raw rulebook text as
// noise, heading candidates or content.
//
// PDF extraction loses all semantic markup, so heading detection is an
// ordered cascade of layout heuristics. Each rule is an independent
// (name, match) pair; the first rule that matches wins. Adding or
// reordering a rule is a one-line change in the cascade slice.
package lineclass

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ludica-labs/regle/internal/textutil"
)

// Kind is the classification of one line.
type Kind int

// Line kinds.
const (
	// Noise is a separator run, page number or extraction artifact.
	Noise Kind = iota

	// Heading is a section title candidate with a hierarchy level.
	Heading

	// Content is running body text.
	Content
)

// Result is the outcome of classifying one line.
type Result struct {
	Kind  Kind
	Title string // heading title, trimmed
	Level int    // 1-3, headings only
}

// Context carries the minimal look-behind state a rule may consult.
type Context struct {
	// PrevBlank is true when the previous raw line was empty.
	PrevBlank bool
}

// Default thresholds.
const (
	// DefaultMinAlphaRatio rejects lines dominated by non-alphabetic
	// characters (multi-column extraction artifacts).
	DefaultMinAlphaRatio = 0.30

	// DefaultMaxAllCapsWords bounds all-caps heading length.
	DefaultMaxAllCapsWords = 9
)

// Classifier applies the heading-detection cascade.
type Classifier struct {
	minAlphaRatio float64
	rules         []rule
}

// rule is one prioritised cascade entry. match returns ok=false to pass
// the line to the next rule.
type rule struct {
	name  string
	match func(c *Classifier, line string, ctx Context) (Result, bool)
}

// Option configures the classifier.
type Option func(*Classifier)

// WithMinAlphaRatio sets the minimum alphabetic-character ratio below
// which a line is treated as noise.
func WithMinAlphaRatio(ratio float64) Option {
	return func(c *Classifier) {
		if ratio > 0 && ratio < 1 {
			c.minAlphaRatio = ratio
		}
	}
}

// New creates a classifier with the default rule cascade.
func New(opts ...Option) *Classifier {
	c := &Classifier{minAlphaRatio: DefaultMinAlphaRatio}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = []rule{
		{"noise", matchNoise},
		{"markdown-heading", matchMarkdownHeading},
		{"all-caps-heading", matchAllCapsHeading},
		{"step-heading", matchStepHeading},
		{"colon-heading", matchColonHeading},
		{"numbered-heading", matchNumberedHeading},
		{"blank-preceded-title", matchBlankPrecededTitle},
		{"isolated-short-title", matchIsolatedShortTitle},
	}
	return c
}

// Classify runs the cascade over one line. Lines that no rule claims
// are content.
func (c *Classifier) Classify(line string, ctx Context) Result {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{Kind: Noise}
	}
	for _, r := range c.rules {
		if res, ok := r.match(c, line, ctx); ok {
			return res
		}
	}
	return Result{Kind: Content}
}

var (
	separatorRunRe  = regexp.MustCompile(`^[-_=*•~.·|+ ]+$`)
	pageNumberRe    = regexp.MustCompile(`^(?i)(?:page\s*)?\d{1,4}(?:\s*/\s*\d{1,4})?$`)
	markdownRe      = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	stepHeadingRe   = regexp.MustCompile(`^(?i)(?:étape|etape|phase)\s+\d+\s*[:\-–—]\s*\S.*$`)
	numberedRe      = regexp.MustCompile(`^\d{1,3}[.)]\s+(.+)$`)
	inlineTitleRe   = regexp.MustCompile(`^([^:]{2,80}?)\s*:\s+(.+)$`)
	terminalPunct   = ".!?;…"
	titleCaseWordRe = regexp.MustCompile(`^[\p{Lu}][\p{L}'’-]*$`)
)

// SplitInlineTitle detects lines of the form "Title : long description"
// and splits them into a synthetic heading and a content remainder. It
// runs before the cascade; ok is false when the line is not of that
// shape.
func SplitInlineTitle(line string) (title, rest string, ok bool) {
	line = strings.TrimSpace(line)
	m := inlineTitleRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	title, rest = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if textutil.WordCount(title) > 6 || textutil.WordCount(rest) < 5 {
		return "", "", false
	}
	if isContentStarter(title) || isVerbStarter(title) {
		return "", "", false
	}
	return title, rest, true
}

// matchNoise drops separator runs, page numbers, near-empty lines and
// lines dominated by non-alphabetic characters.
func matchNoise(c *Classifier, line string, _ Context) (Result, bool) {
	if separatorRunRe.MatchString(line) || pageNumberRe.MatchString(line) {
		return Result{Kind: Noise}, true
	}
	var visible, alpha int
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if visible <= 2 {
		return Result{Kind: Noise}, true
	}
	if visible >= 4 && float64(alpha)/float64(visible) < c.minAlphaRatio {
		return Result{Kind: Noise}, true
	}
	return Result{}, false
}

// matchMarkdownHeading maps a 1-3 '#' prefix to levels 1-3.
func matchMarkdownHeading(_ *Classifier, line string, _ Context) (Result, bool) {
	m := markdownRe.FindStringSubmatch(line)
	if m == nil {
		return Result{}, false
	}
	title := strings.TrimSpace(m[2])
	if meaningfulChars(title) < 2 {
		return Result{Kind: Noise}, true
	}
	return Result{Kind: Heading, Title: title, Level: len(m[1])}, true
}

// matchAllCapsHeading claims short fully-uppercase lines ("MATÉRIEL").
func matchAllCapsHeading(_ *Classifier, line string, _ Context) (Result, bool) {
	if meaningfulChars(line) < 3 || textutil.WordCount(line) > DefaultMaxAllCapsWords {
		return Result{}, false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return Result{}, false
			}
		}
	}
	if !hasLetter {
		return Result{}, false
	}
	// Multi-word caps lines and substantial single words ("MATÉRIEL")
	// are top-level sections; very short caps ("FIN") sit one below.
	level := 2
	if textutil.WordCount(line) >= 2 || meaningfulChars(line) >= 6 {
		level = 1
	}
	return Result{Kind: Heading, Title: line, Level: level}, true
}

// matchStepHeading claims enumerated step titles ("Étape 2 : Déploiement").
func matchStepHeading(_ *Classifier, line string, _ Context) (Result, bool) {
	if !stepHeadingRe.MatchString(line) {
		return Result{}, false
	}
	return Result{Kind: Heading, Title: line, Level: 2}, true
}

// matchColonHeading claims "Titre :" alone on a line.
func matchColonHeading(_ *Classifier, line string, _ Context) (Result, bool) {
	if !strings.HasSuffix(line, ":") {
		return Result{}, false
	}
	title := strings.TrimSpace(strings.TrimSuffix(line, ":"))
	if title == "" || textutil.WordCount(title) > 6 {
		return Result{}, false
	}
	if strings.Contains(title, ",") || isContentStarter(title) || isVerbStarter(title) {
		return Result{}, false
	}
	return Result{Kind: Heading, Title: title, Level: 2}, true
}

// matchNumberedHeading claims "N. Titre" / "N) Titre" when the phrase
// reads as a title rather than a list item.
func matchNumberedHeading(_ *Classifier, line string, _ Context) (Result, bool) {
	m := numberedRe.FindStringSubmatch(line)
	if m == nil {
		return Result{}, false
	}
	phrase := strings.TrimSpace(m[1])
	if textutil.WordCount(phrase) > 7 || hasTerminalPunct(phrase) {
		return Result{}, false
	}
	if isContentStarter(phrase) || isVerbStarter(phrase) {
		return Result{}, false
	}
	return Result{Kind: Heading, Title: line, Level: 2}, true
}

// matchBlankPrecededTitle claims short capitalised lines that follow a
// blank line.
func matchBlankPrecededTitle(_ *Classifier, line string, ctx Context) (Result, bool) {
	if !ctx.PrevBlank {
		return Result{}, false
	}
	words := textutil.WordCount(line)
	if words < 1 || words > 8 {
		return Result{}, false
	}
	first := []rune(line)[0]
	if !unicode.IsUpper(first) {
		return Result{}, false
	}
	if hasTerminalPunct(line) || strings.Contains(line, ",") {
		return Result{}, false
	}
	if isContentStarter(line) || isVerbStarter(line) {
		return Result{}, false
	}
	level := 2
	if words == 1 {
		level = 3
	}
	return Result{Kind: Heading, Title: line, Level: level}, true
}

// matchIsolatedShortTitle claims 1-3 word Title-Case lines without a
// preceding blank.
func matchIsolatedShortTitle(_ *Classifier, line string, _ Context) (Result, bool) {
	words := strings.Fields(line)
	if len(words) < 1 || len(words) > 3 || len([]rune(line)) < 4 {
		return Result{}, false
	}
	for _, w := range words {
		if !titleCaseWordRe.MatchString(w) {
			return Result{}, false
		}
	}
	if hasTerminalPunct(line) {
		return Result{}, false
	}
	if isContentStarter(line) || isVerbStarter(line) {
		return Result{}, false
	}
	return Result{Kind: Heading, Title: line, Level: 3}, true
}

// meaningfulChars counts letters and digits after trimming.
func meaningfulChars(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func hasTerminalPunct(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.ContainsRune(terminalPunct, []rune(s)[len([]rune(s))-1])
}
