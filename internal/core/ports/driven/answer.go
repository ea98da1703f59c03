package driven

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// AnswerService generates a prose answer from a question and retrieved
// context. This is an optional service - when nil, questions return the
// raw formatted context instead of a generated answer.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT models)
type AnswerService interface {
	// Answer produces an answer to the question grounded in the
	// formatted context string.
	Answer(ctx context.Context, question, context string) (*domain.Answer, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
