// Package classify assigns semantic categories to rulebook sections and
// detects the intent behind user queries.
//
// Both classifiers are pure keyword matchers over accent-folded text:
// identical input always yields identical output. Keyword groups are
// ordered and the first group that matches wins.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/textutil"
)

// leadingContentChars bounds how much body text participates in
// category matching. Titles are short; bodies are not.
const leadingContentChars = 400

// keywordGroup maps a category to the folded keywords that indicate it.
type keywordGroup struct {
	category domain.SectionCategory
	keywords []string
}

// categoryGroups is the ordered match cascade. More specific groups
// come first so "Mise en place du matériel" reads as setup, not
// components, and "Fin de partie et décompte" reads as victory.
var categoryGroups = []keywordGroup{
	{domain.CategoryObjective, []string{
		"but du jeu", "but de la partie", "objectif",
	}},
	{domain.CategorySetup, []string{
		"mise en place", "preparation", "installation", "avant de jouer", "avant la partie",
	}},
	{domain.CategoryVictory, []string{
		"fin de partie", "fin du jeu", "fin de la partie", "victoire",
		"vainqueur", "gagnant", "decompte", "comment gagner", "score final",
	}},
	{domain.CategoryTurnStructure, []string{
		"tour de jeu", "deroulement", "sequence de jeu", "a votre tour",
		"tour d'un joueur", "tour des joueurs", "phase", "ordre du tour",
	}},
	{domain.CategoryComponents, []string{
		"materiel", "contenu de la boite", "contenu", "composants", "elements du jeu",
	}},
	{domain.CategoryEventCards, []string{
		"carte evenement", "cartes evenement", "evenement", "carte action", "cartes action",
	}},
	{domain.CategorySpecialRules, []string{
		"regle speciale", "regles speciales", "cas particulier", "cas particuliers",
		"exception", "pouvoir", "capacite",
	}},
	{domain.CategoryVariant, []string{
		"variante", "mode avance", "mode solo", "jeu en equipe", "version experte", "deux joueurs",
	}},
	{domain.CategoryTips, []string{
		"conseil", "astuce", "strategie", "exemple de partie", "questions frequentes", "faq",
	}},
	{domain.CategoryPresentation, []string{
		"presentation", "introduction", "apercu", "bienvenue", "univers", "histoire du jeu",
	}},
}

// Category assigns a section category from its title and leading
// content. The title is matched first on its own so a decisive title is
// never overridden by body noise; content only breaks the tie when the
// title matched nothing.
func Category(title, content string) domain.SectionCategory {
	foldedTitle := textutil.Fold(title)
	for _, g := range categoryGroups {
		for _, kw := range g.keywords {
			if strings.Contains(foldedTitle, kw) {
				return g.category
			}
		}
	}

	foldedLead := textutil.Fold(truncateRunes(content, leadingContentChars))
	for _, g := range categoryGroups {
		for _, kw := range g.keywords {
			if strings.Contains(foldedLead, kw) {
				return g.category
			}
		}
	}

	return domain.CategoryOther
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
