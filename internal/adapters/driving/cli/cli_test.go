package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludica-labs/regle/internal/adapters/driven/storage/memory"
	"github.com/ludica-labs/regle/internal/core/domain"
)

// Mock services for command tests.

type mockRetrieval struct {
	selection *domain.GameSelection
	err       error
	lastOpts  domain.RetrieveOptions
}

func (m *mockRetrieval) Retrieve(_ context.Context, _ string, opts domain.RetrieveOptions) (*domain.GameSelection, error) {
	m.lastOpts = opts
	return m.selection, m.err
}

type mockAsk struct {
	answer    *domain.Answer
	selection *domain.GameSelection
	err       error
}

func (m *mockAsk) Ask(_ context.Context, _ string, _ domain.RetrieveOptions) (*domain.Answer, *domain.GameSelection, error) {
	return m.answer, m.selection, m.err
}

type mockIngest struct {
	chunks   []domain.IndexedChunk
	err      error
	lastPath string
	lastName string
	lastMrge bool
}

func (m *mockIngest) IngestFile(_ context.Context, path, gameName string, merge bool) ([]domain.IndexedChunk, error) {
	m.lastPath, m.lastName, m.lastMrge = path, gameName, merge
	return m.chunks, m.err
}

func (m *mockIngest) IngestText(_ context.Context, _, _ string, _ bool) ([]domain.IndexedChunk, error) {
	return m.chunks, m.err
}

func catanSelection() *domain.GameSelection {
	return &domain.GameSelection{
		GameID:   "g1",
		GameName: "Catan",
		Chunks: []domain.ScoredChunk{
			{
				Chunk: domain.IndexedChunk{
					ID:     "g1_0",
					GameID: "g1",
					Chunk: domain.Chunk{
						Content:       "Le premier joueur à dix points de victoire gagne la partie.",
						SectionTitle:  "Fin de partie",
						HierarchyPath: "Règles > Fin de partie",
						Category:      domain.CategoryVictory,
						PageStart:     12,
						PageEnd:       12,
					},
				},
				Score:    0.91,
				Stage:    domain.StageFused,
				GameID:   "g1",
				GameName: "Catan",
			},
		},
	}
}

// setupTestServices wires mock services and returns a cleanup func.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	store := memory.NewGameStore()
	require.NoError(t, store.SaveGame(context.Background(), &domain.Game{
		ID: "g1", Name: "Catan", ChunkCount: 2,
		UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}))

	Configure(Services{
		Ingest:    &mockIngest{chunks: make([]domain.IndexedChunk, 12)},
		Retrieval: &mockRetrieval{selection: catanSelection()},
		Ask: &mockAsk{
			answer:    &domain.Answer{Text: "Dix points de victoire.", Model: "llama3.2", Generated: true},
			selection: catanSelection(),
		},
		Games: store,
	})

	return func() {
		Configure(Services{})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// Version

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	version = "test-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regle version test-1.0.0")
}

// Games

func TestGamesListCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "games", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Catan")
	assert.Contains(t, out, "2 chunks")
	assert.Contains(t, out, "2026-03-01")
}

func TestGamesListCmd_Empty(t *testing.T) {
	Configure(Services{Games: memory.NewGameStore()})
	defer Configure(Services{})

	out, err := execute(t, "games", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No games indexed")
}

func TestGamesRemoveCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "games", "remove", "Catan")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed "Catan"`)

	_, err = gameStore.GetGameByName(context.Background(), "Catan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGamesRemoveCmd_UnknownGame(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "games", "remove", "Dixit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no indexed game")
}

// Search

func TestSearchCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "search", "points", "de", "victoire")
	require.NoError(t, err)
	assert.Contains(t, out, "Results for Catan")
	assert.Contains(t, out, "Règles > Fin de partie")
	assert.Contains(t, out, "dix points de victoire")
}

func TestSearchCmd_NoResults(t *testing.T) {
	Configure(Services{Retrieval: &mockRetrieval{}})
	defer Configure(Services{})

	out, err := execute(t, "search", "licorne")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found")
}

func TestSearchCmd_GameFilter(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	retrieval := retrievalService.(*mockRetrieval)
	_, err := execute(t, "search", "--game", "Catan", "victoire")
	require.NoError(t, err)
	assert.Equal(t, "g1", retrieval.lastOpts.GameID)
	assert.True(t, retrieval.lastOpts.Hybrid)
}

func TestSearchCmd_DenseOnly(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	retrieval := retrievalService.(*mockRetrieval)
	_, err := execute(t, "search", "--dense-only", "victoire")
	require.NoError(t, err)
	assert.False(t, retrieval.lastOpts.Hybrid)

	// Reset for other tests; cobra keeps flag values between runs.
	_, err = execute(t, "search", "--dense-only=false", "victoire")
	require.NoError(t, err)
}

// Ask

func TestAskCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "ask", "Combien", "de", "points", "pour", "gagner", "?")
	require.NoError(t, err)
	assert.Contains(t, out, "Jeu : Catan")
	assert.Contains(t, out, "Dix points de victoire.")
	assert.Contains(t, out, "generated by llama3.2")
}

func TestAskCmd_NoSelection(t *testing.T) {
	Configure(Services{Ask: &mockAsk{}})
	defer Configure(Services{})

	out, err := execute(t, "ask", "question", "sans", "réponse")
	require.NoError(t, err)
	assert.Contains(t, out, "No relevant rules found")
}

func TestAskCmd_NotConfigured(t *testing.T) {
	Configure(Services{})

	_, err := execute(t, "ask", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

// Ingest

func TestIngestCmd_DefaultsNameFromFile(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	ingest := ingestService.(*mockIngest)
	out, err := execute(t, "ingest", "/tmp/7-wonders.pdf")
	require.NoError(t, err)
	assert.Equal(t, "7-wonders", ingest.lastName)
	assert.Contains(t, out, `Indexed "7-wonders": 12 chunks`)
}

func TestIngestCmd_MergeFlag(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	ingest := ingestService.(*mockIngest)
	out, err := execute(t, "ingest", "--name", "7 Wonders", "--merge", "/tmp/extension.pdf")
	require.NoError(t, err)
	assert.True(t, ingest.lastMrge)
	assert.Equal(t, "7 Wonders", ingest.lastName)
	assert.Contains(t, out, "Merged")

	_, err = execute(t, "ingest", "--name=", "--merge=false", "/tmp/reset.pdf")
	require.NoError(t, err)
}

func TestIngestCmd_RequiresArg(t *testing.T) {
	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

// Snippet helper

func TestSnippet_Shortens(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "mot "
	}
	s := snippet(long)
	assert.LessOrEqual(t, len(s), 165)
	assert.Contains(t, s, "…")
}

func TestSnippet_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "un deux trois", snippet("un\n  deux\ttrois"))
}
