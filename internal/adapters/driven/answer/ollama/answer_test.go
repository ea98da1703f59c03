package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerService_Answer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "Combien de points pour gagner ?")
		assert.Contains(t, req.Prompt, "dix points de victoire")

		json.NewEncoder(w).Encode(generateResponse{
			Response: "  Il faut dix points de victoire. ",
			Done:     true,
		})
	}))
	defer server.Close()

	svc := NewAnswerService(Config{BaseURL: server.URL, Model: "llama3.2"})
	answer, err := svc.Answer(context.Background(),
		"Combien de points pour gagner ?",
		"## Fin de partie\nLe premier joueur à dix points de victoire gagne.")
	require.NoError(t, err)

	assert.Equal(t, "Il faut dix points de victoire.", answer.Text)
	assert.Equal(t, "llama3.2", answer.Model)
	assert.True(t, answer.Generated)
}

func TestAnswerService_Answer_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewAnswerService(Config{BaseURL: server.URL})
	_, err := svc.Answer(context.Background(), "question", "contexte")
	assert.ErrorContains(t, err, "status 404")
}

type stubPromptStore struct {
	prompt string
}

func (s *stubPromptStore) Load(string) (string, error) { return s.prompt, nil }
func (s *stubPromptStore) Reload()                     {}

func TestAnswerService_Answer_CustomPrompt(t *testing.T) {
	var seenPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seenPrompt = req.Prompt
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer server.Close()

	svc := NewAnswerService(Config{BaseURL: server.URL})
	svc.SetPromptStore(&stubPromptStore{prompt: "Q=%s C=%s"})

	_, err := svc.Answer(context.Background(), "question", "contexte")
	require.NoError(t, err)
	assert.Equal(t, "Q=question C=contexte", seenPrompt)
}
