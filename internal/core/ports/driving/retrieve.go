package driving

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// RetrievalService returns the most relevant chunks for a query,
// selecting which indexed game the query is about when no game filter
// is given.
type RetrievalService interface {
	// Retrieve runs the hybrid (or dense-only) search. A nil selection
	// with a nil error means no chunk matched; callers distinguish that
	// from "no games indexed" (domain.ErrNoGamesIndexed) and from
	// backend failures (domain.ErrRetrievalUnavailable).
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.GameSelection, error)
}

// AskService answers a natural-language question against the indexed
// rulebooks.
type AskService interface {
	// Ask retrieves context for the question and generates an answer.
	// Without a configured answer generator the answer text is the
	// formatted retrieved context.
	Ask(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, *domain.GameSelection, error)
}
