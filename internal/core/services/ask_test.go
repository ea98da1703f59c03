package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	selection *domain.GameSelection
	err       error
}

func (m *mockRetrieval) Retrieve(_ context.Context, _ string, _ domain.RetrieveOptions) (*domain.GameSelection, error) {
	return m.selection, m.err
}

// mockAnswerService implements driven.AnswerService for testing.
type mockAnswerService struct {
	answer      *domain.Answer
	answerErr   error
	lastContext string
}

func (m *mockAnswerService) Answer(_ context.Context, _, contextStr string) (*domain.Answer, error) {
	m.lastContext = contextStr
	if m.answerErr != nil {
		return nil, m.answerErr
	}
	return m.answer, nil
}

func (m *mockAnswerService) ModelName() string            { return "mock-llm" }
func (m *mockAnswerService) Ping(_ context.Context) error { return nil }
func (m *mockAnswerService) Close() error                 { return nil }

func sampleSelection() *domain.GameSelection {
	return &domain.GameSelection{
		GameID:   "g1",
		GameName: "Catan",
		Chunks: []domain.ScoredChunk{
			{
				Chunk: domain.IndexedChunk{
					ID:     "g1_0",
					GameID: "g1",
					Chunk: domain.Chunk{
						Content:       "La partie se termine à dix points de victoire.",
						SectionTitle:  "Fin de partie",
						HierarchyPath: "Règles > Fin de partie",
						PageStart:     4,
						PageEnd:       5,
					},
				},
				Score:    0.9,
				Stage:    domain.StageFused,
				GameID:   "g1",
				GameName: "Catan",
			},
		},
	}
}

func TestAsk_WithGenerator(t *testing.T) {
	answerer := &mockAnswerService{answer: &domain.Answer{
		Text:      "Il faut dix points de victoire.",
		Model:     "mock-llm",
		Generated: true,
	}}
	svc := NewAskService(&mockRetrieval{selection: sampleSelection()}, answerer)

	answer, selection, err := svc.Ask(context.Background(), "Comment gagner ?", domain.RetrieveOptions{Hybrid: true})
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.True(t, answer.Generated)
	assert.Equal(t, "Il faut dix points de victoire.", answer.Text)
	assert.Equal(t, "Catan", selection.GameName)

	// The generator receives the formatted context, not raw chunks.
	assert.Contains(t, answerer.lastContext, "Jeu : Catan")
	assert.Contains(t, answerer.lastContext, "Règles > Fin de partie")
	assert.Contains(t, answerer.lastContext, "(p. 4-5)")
}

func TestAsk_WithoutGenerator(t *testing.T) {
	svc := NewAskService(&mockRetrieval{selection: sampleSelection()}, nil)

	answer, selection, err := svc.Ask(context.Background(), "Comment gagner ?", domain.RetrieveOptions{Hybrid: true})
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.False(t, answer.Generated)
	assert.Contains(t, answer.Text, "dix points de victoire")
	assert.NotNil(t, selection)
}

func TestAsk_GeneratorFailureFallsBackToContext(t *testing.T) {
	answerer := &mockAnswerService{answerErr: errors.New("model not loaded")}
	svc := NewAskService(&mockRetrieval{selection: sampleSelection()}, answerer)

	answer, _, err := svc.Ask(context.Background(), "Comment gagner ?", domain.RetrieveOptions{Hybrid: true})
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.False(t, answer.Generated)
	assert.True(t, strings.Contains(answer.Text, "Fin de partie"))
}

func TestAsk_NoSelection(t *testing.T) {
	svc := NewAskService(&mockRetrieval{}, nil)

	answer, selection, err := svc.Ask(context.Background(), "question sans réponse", domain.RetrieveOptions{})
	require.NoError(t, err)
	assert.Nil(t, answer)
	assert.Nil(t, selection)
}

func TestAsk_RetrievalErrorPropagates(t *testing.T) {
	svc := NewAskService(&mockRetrieval{err: domain.ErrNoGamesIndexed}, nil)

	_, _, err := svc.Ask(context.Background(), "comment jouer", domain.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrNoGamesIndexed)
}
