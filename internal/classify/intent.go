package classify

import (
	"strings"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/textutil"
)

// Recommended result counts per intent.
const (
	overviewK = 8
	specificK = 4
)

// shortQueryWords is the length under which an unmatched query is
// nudged toward overview: "les règles de Catan" wants breadth.
const shortQueryWords = 8

// overviewPatterns indicate a request for breadth: the player wants the
// shape of the game, not one ruling. Folded form, matched as substrings.
var overviewPatterns = []string{
	"resume",
	"en resume",
	"c'est quoi",
	"de quoi s'agit",
	"comment jouer",
	"comment on joue",
	"comment fonctionne",
	"comment marche",
	"comment se deroule",
	"explique",
	"presente",
	"apercu",
	"vue d'ensemble",
	"en gros",
	"regles du jeu",
	"principe du jeu",
}

// specificPatterns indicate a precise ruling question.
var specificPatterns = []string{
	"que se passe",
	"qu'est-ce qui se passe",
	"est-ce que je peux",
	"est-ce que l'on peut",
	"est-ce qu'on peut",
	"puis-je",
	"peut-on",
	"ai-je le droit",
	"a-t-on le droit",
	"est-il possible",
	"combien",
	"quand",
	"quel est",
	"quelle est",
	"quels sont",
	"quelles sont",
	"dans quel cas",
	"pourquoi",
}

// overviewPriority orders the structural categories an overview answer
// should draw from first.
var overviewPriority = []domain.SectionCategory{
	domain.CategoryPresentation,
	domain.CategoryObjective,
	domain.CategoryTurnStructure,
	domain.CategoryVictory,
	domain.CategorySetup,
	domain.CategoryComponents,
}

// Intent decides whether a query asks for an overview or a specific
// ruling, with a confidence derived from how one-sided the pattern
// matches are.
func Intent(query string) domain.QueryIntent {
	folded := textutil.Fold(query)

	overview := countMatches(folded, overviewPatterns)
	specific := countMatches(folded, specificPatterns)

	var confidence float64
	if total := overview + specific; total > 0 {
		diff := overview - specific
		if diff < 0 {
			diff = -diff
		}
		confidence = float64(diff) / float64(total)
	}

	isOverview := overview > specific
	if overview == 0 && specific == 0 && textutil.WordCount(query) < shortQueryWords {
		isOverview = true
	}

	if isOverview {
		return domain.QueryIntent{
			Intent:             domain.IntentOverview,
			Confidence:         confidence,
			RecommendedK:       overviewK,
			PriorityCategories: overviewPriority,
		}
	}
	return domain.QueryIntent{
		Intent:       domain.IntentSpecific,
		Confidence:   confidence,
		RecommendedK: specificK,
	}
}

func countMatches(folded string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(folded, p) {
			n++
		}
	}
	return n
}
