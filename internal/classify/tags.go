package classify

import (
	"strings"
	"unicode"

	"github.com/ludica-labs/regle/internal/textutil"
)

// summaryMaxChars bounds the one-line chunk summary.
const summaryMaxChars = 120

// maxEntities caps the number of detected entities per chunk.
const maxEntities = 8

// mechanicKeywords maps folded mechanic phrases to their canonical tag.
// Ordered so multi-word phrases are tested before their single-word
// prefixes.
var mechanicKeywords = []struct {
	phrase string
	tag    string
}{
	{"points de victoire", "points_victoire"},
	{"lancer les des", "lancer_des"},
	{"lancez les des", "lancer_des"},
	{"jet de des", "lancer_des"},
	{"pose de tuiles", "pose_tuiles"},
	{"placement d'ouvriers", "placement_ouvriers"},
	{"pioche", "pioche"},
	{"piochez", "pioche"},
	{"defausse", "defausse"},
	{"enchere", "enchere"},
	{"echange", "echange"},
	{"negociation", "negociation"},
	{"majorite", "majorite"},
	{"cooperatif", "cooperation"},
	{"cooperation", "cooperation"},
	{"combat", "combat"},
	{"deplacement", "deplacement"},
	{"deplacez", "deplacement"},
	{"collection", "collection"},
	{"draft", "draft"},
}

// Mechanics detects game-mechanic keywords in the chunk content.
// The result is deduplicated and ordered by the keyword table.
func Mechanics(content string) []string {
	folded := textutil.Fold(content)
	var out []string
	seen := make(map[string]struct{})
	for _, mk := range mechanicKeywords {
		if _, dup := seen[mk.tag]; dup {
			continue
		}
		if strings.Contains(folded, mk.phrase) {
			seen[mk.tag] = struct{}{}
			out = append(out, mk.tag)
		}
	}
	return out
}

// Entities extracts capitalized words that read as named game pieces or
// concepts: mid-sentence capitalized words of three or more letters.
// Sentence-initial words are skipped since French capitalizes them
// regardless of meaning.
func Entities(content string) []string {
	var out []string
	seen := make(map[string]struct{})

	sentenceStart := true
	for _, w := range strings.Fields(content) {
		atStart := sentenceStart
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		sentenceStart = strings.ContainsAny(w, ".!?:…")

		if atStart || len([]rune(trimmed)) < 3 {
			continue
		}
		runes := []rune(trimmed)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		key := textutil.Fold(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
		if len(out) == maxEntities {
			break
		}
	}
	return out
}

// Summary produces a one-line description of a chunk: its first
// sentence, truncated to a fixed length.
func Summary(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	end := len(content)
	for i, r := range content {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			end = i + 1
			break
		}
	}
	s := strings.TrimSpace(content[:end])

	if len(s) > summaryMaxChars {
		s = strings.TrimSpace(truncateRunes(s, summaryMaxChars)) + "…"
	}
	return s
}
