package lineclass

import (
	"strings"
	"unicode"

	"github.com/ludica-labs/regle/internal/textutil"
)

// functionWords is the closed set of French articles, pronouns,
// prepositions and conjunctions that mark a line as running content
// rather than a title. Keys are accent-folded lowercase.
var functionWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// articles
		"le", "la", "les", "un", "une", "des", "du", "de", "d", "l", "au", "aux",
		// demonstratives and possessives
		"ce", "cet", "cette", "ces", "son", "sa", "ses", "leur", "leurs",
		"mon", "ma", "mes", "ton", "ta", "tes", "notre", "nos", "votre", "vos",
		// pronouns
		"il", "elle", "ils", "elles", "on", "nous", "vous", "je", "tu",
		"cela", "ceci", "ca", "chacun", "chaque", "tout", "tous", "toute", "toutes",
		// prepositions
		"dans", "sur", "sous", "avec", "sans", "pour", "par", "en", "a",
		"vers", "chez", "entre", "depuis", "pendant", "avant", "apres", "lors",
		// conjunctions and connectors
		"et", "ou", "mais", "donc", "or", "ni", "car", "si", "que", "qui",
		"quand", "lorsque", "puis", "ensuite", "alors", "ainsi", "comme",
	} {
		functionWords[w] = struct{}{}
	}
}

// isContentStarter reports whether the line's first word is a French
// function word, which rules it out as a heading.
func isContentStarter(line string) bool {
	tokens := textutil.Tokenize(line)
	if len(tokens) == 0 {
		return false
	}
	_, ok := functionWords[tokens[0]]
	return ok
}

// verbNounGuards are noun endings that would otherwise trip the
// verb-starter suffix check ("Territoire", "Victoire", "Adversaire",
// "Manière").
var verbNounGuards = []string{"oire", "aire", "ière", "iere"}

// verbSuffixes match French imperative and infinitive forms
// ("Placez", "Mélanger", "Choisir", "Prévoir", "Prendre").
var verbSuffixes = []string{"ez", "er", "ir", "oir", "re"}

// isVerbStarter reports whether the line opens with a capitalised word
// that looks like an imperative or infinitive verb form.
func isVerbStarter(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	word := strings.Trim(fields[0], ",.;:!?\"'()")
	runes := []rune(word)
	if len(runes) < 4 || !unicode.IsUpper(runes[0]) {
		return false
	}
	lower := strings.ToLower(word)
	for _, guard := range verbNounGuards {
		if strings.HasSuffix(lower, guard) {
			return false
		}
	}
	for _, suffix := range verbSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
