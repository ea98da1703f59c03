package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludica-labs/regle/internal/adapters/driven/storage/memory"
	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/postprocessors"
	"github.com/ludica-labs/regle/internal/postprocessors/chunker"
)

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	pages      []domain.Page
	extractErr error
}

func (m *mockExtractor) SupportedExtensions() []string { return []string{".txt"} }

func (m *mockExtractor) Extract(_ context.Context, _ string) ([]domain.Page, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.pages, nil
}

const rulebookText = `MATÉRIEL

La boîte contient un plateau de jeu, soixante cartes ressource, des routes
en bois et des colonies pour chaque joueur. Vérifiez le contenu avant la
première partie et rangez les éléments dans les compartiments prévus.

BUT DU JEU

Chaque joueur développe son réseau de colonies et de routes pour marquer
des points de victoire. La partie se termine dès qu'un joueur atteint dix
points pendant son propre tour de jeu et annonce sa victoire aux autres.

DÉROULEMENT

À votre tour, lancez les dés pour la production de ressources, puis
commercez avec les autres joueurs et construisez des routes ou des
colonies. Certaines cartes permettent des actions spéciales qui modifient
ces règles de base pendant toute la durée de la manche en cours.
`

func newIngestFixture(t *testing.T) (*IngestService, *memory.GameStore) {
	t.Helper()
	store := memory.NewGameStore()
	pipeline := postprocessors.NewPipeline(chunker.New())
	svc := NewIngestService(store, nil, pipeline, &mockEmbeddingService{}, WithEmbedRate(1000))
	return svc, store
}

func TestIngestText(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	chunks, err := svc.IngestText(ctx, rulebookText, "Catan", false)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	game, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)
	assert.Equal(t, len(chunks), game.ChunkCount)

	for i, c := range chunks {
		assert.Equal(t, domain.ChunkID(game.ID, i), c.ID)
		assert.Equal(t, game.ID, c.GameID)
		assert.NotEmpty(t, c.Content)
		assert.True(t, c.Category.IsValid())
		assert.Len(t, c.Embedding, 3)
	}

	// Section categories flow through to the chunks.
	categories := make(map[domain.SectionCategory]bool)
	for _, c := range chunks {
		categories[c.Category] = true
	}
	assert.True(t, categories[domain.CategoryComponents])
	assert.True(t, categories[domain.CategoryObjective])
	assert.True(t, categories[domain.CategoryTurnStructure])
}

func TestIngestText_Empty(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	chunks, err := svc.IngestText(ctx, "   \n  ", "Catan", false)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// No game record is created for an empty document.
	_, err = store.GetGameByName(ctx, "Catan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestText_MissingName(t *testing.T) {
	svc, _ := newIngestFixture(t)

	_, err := svc.IngestText(context.Background(), rulebookText, "  ", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestText_MergeContinuesOffsets(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	first, err := svc.IngestText(ctx, rulebookText, "Catan", false)
	require.NoError(t, err)

	extra := `VARIANTE POUR EXPERTS

Cette variante ajoute des enchères au début de chaque manche pour
l'ordre du tour. Les joueurs misent des ressources et le plus offrant
choisit sa position, ce qui change profondément les premières parties.
`
	second, err := svc.IngestText(ctx, extra, "Catan", true)
	require.NoError(t, err)
	require.NotEmpty(t, second)

	// Ids continue the sequence instead of restarting at zero.
	game, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)
	assert.Equal(t, domain.ChunkID(game.ID, len(first)), second[0].ID)
	assert.Equal(t, len(first)+len(second), game.ChunkCount)
}

func TestIngestText_ReplaceWithoutMerge(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	first, err := svc.IngestText(ctx, rulebookText, "Catan", false)
	require.NoError(t, err)
	firstGame, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)

	second, err := svc.IngestText(ctx, rulebookText, "Catan", false)
	require.NoError(t, err)
	secondGame, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)

	assert.NotEqual(t, firstGame.ID, secondGame.ID)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, domain.ChunkID(secondGame.ID, 0), second[0].ID)

	// The replaced game's chunks are gone.
	_, err = store.GetChunk(ctx, first[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestText_EmbedFailureKeepsExistingGame(t *testing.T) {
	store := memory.NewGameStore()
	pipeline := postprocessors.NewPipeline(chunker.New())
	embedder := &mockEmbeddingService{}
	svc := NewIngestService(store, nil, pipeline, embedder, WithEmbedRate(1000))
	ctx := context.Background()

	first, err := svc.IngestText(ctx, rulebookText, "Catan", false)
	require.NoError(t, err)
	firstGame, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)

	// The embedding backend goes down before the re-ingest.
	embedder.embedErr = errors.New("connection refused")
	_, err = svc.IngestText(ctx, rulebookText, "Catan", false)
	require.Error(t, err)

	// The previously indexed game survives untouched.
	game, err := store.GetGameByName(ctx, "Catan")
	require.NoError(t, err)
	assert.Equal(t, firstGame.ID, game.ID)
	assert.Equal(t, len(first), game.ChunkCount)
	for _, c := range first {
		_, err := store.GetChunk(ctx, c.ID)
		assert.NoError(t, err)
	}
}

func TestIngestText_TagsAssigned(t *testing.T) {
	svc, _ := newIngestFixture(t)

	chunks, err := svc.IngestText(context.Background(), rulebookText, "Catan", false)
	require.NoError(t, err)

	var sawMechanic, sawSummary bool
	for _, c := range chunks {
		if len(c.Mechanics) > 0 {
			sawMechanic = true
		}
		if c.Summary != "" {
			sawSummary = true
		}
	}
	assert.True(t, sawMechanic, "dice and victory-point mechanics should be detected")
	assert.True(t, sawSummary)
}

func TestIngestText_NoEmbedder(t *testing.T) {
	store := memory.NewGameStore()
	pipeline := postprocessors.NewPipeline(chunker.New())
	svc := NewIngestService(store, nil, pipeline, nil)

	chunks, err := svc.IngestText(context.Background(), rulebookText, "Catan", false)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Nil(t, c.Embedding)
	}
}

func TestIngestFile(t *testing.T) {
	store := memory.NewGameStore()
	pipeline := postprocessors.NewPipeline(chunker.New())
	extractor := &mockExtractor{pages: []domain.Page{
		{Number: 1, Text: strings.SplitN(rulebookText, "BUT DU JEU", 2)[0]},
		{Number: 2, Text: "BUT DU JEU" + strings.SplitN(rulebookText, "BUT DU JEU", 2)[1]},
	}}
	svc := NewIngestService(store, []driven.Extractor{extractor}, pipeline, nil)

	chunks, err := svc.IngestFile(context.Background(), "/tmp/catan.txt", "Catan", false)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Page numbers survive extraction, building and chunking.
	var sawPageTwo bool
	for _, c := range chunks {
		if c.PageStart >= 2 || c.PageEnd >= 2 {
			sawPageTwo = true
		}
	}
	assert.True(t, sawPageTwo)

	game, err := store.GetGameByName(context.Background(), "Catan")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/catan.txt", game.SourcePath)
}

func TestIngestFile_UnknownExtension(t *testing.T) {
	svc, _ := newIngestFixture(t)

	_, err := svc.IngestFile(context.Background(), "/tmp/rules.docx", "Catan", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
