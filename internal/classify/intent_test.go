package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludica-labs/regle/internal/core/domain"
)

func TestIntent_Overview(t *testing.T) {
	tests := []string{
		"Comment fonctionne le jeu ?",
		"Explique-moi les règles du jeu",
		"C'est quoi le principe du jeu ?",
		"Fais-moi un résumé de la partie",
	}

	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			got := Intent(query)
			assert.Equal(t, domain.IntentOverview, got.Intent)
			assert.Equal(t, overviewK, got.RecommendedK)
			assert.NotEmpty(t, got.PriorityCategories)
			assert.Equal(t, domain.CategoryPresentation, got.PriorityCategories[0])
			assert.Greater(t, got.Confidence, 0.0)
		})
	}
}

func TestIntent_Specific(t *testing.T) {
	tests := []string{
		"Que se passe-t-il si je ne peux pas jouer de carte pendant mon tour ?",
		"Combien de cartes faut-il piocher au début de chaque manche ?",
		"Est-ce que je peux échanger des ressources avec un autre joueur à tout moment ?",
		"Quand est-ce que les points de la réserve sont comptés dans le score ?",
	}

	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			got := Intent(query)
			assert.Equal(t, domain.IntentSpecific, got.Intent)
			assert.Equal(t, specificK, got.RecommendedK)
			assert.Nil(t, got.PriorityCategories)
		})
	}
}

func TestIntent_ShortUnmatchedNudgesOverview(t *testing.T) {
	got := Intent("les règles de Catan")
	assert.Equal(t, domain.IntentOverview, got.Intent)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestIntent_LongUnmatchedStaysSpecific(t *testing.T) {
	got := Intent("je voudrais savoir ce que dit la règle au sujet des échanges entre joueurs")
	assert.Equal(t, domain.IntentSpecific, got.Intent)
}

func TestIntent_ConfidenceReflectsImbalance(t *testing.T) {
	// One overview match, zero specific: fully one-sided.
	oneSided := Intent("comment fonctionne le jeu")
	assert.Equal(t, 1.0, oneSided.Confidence)

	// A query hitting both sets is less certain.
	mixed := Intent("explique-moi combien de cartes on pioche")
	assert.Less(t, mixed.Confidence, 1.0)
}
