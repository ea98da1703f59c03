package driven

import "context"

// TextIndex provides sparse full-text search operations.
// Backed by SQLite FTS5 with BM25 ranking. Field weighting must favour
// the section title over the hierarchy path over the body.
type TextIndex interface {
	// Search performs a lexical search for a normalised boolean query
	// expression and returns matching chunk IDs with raw ranks.
	// gameID restricts the search to one game; empty searches all games.
	Search(ctx context.Context, query string, gameID string, limit int) ([]TextHit, error)
}

// TextHit is a sparse search result.
type TextHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Rank is the raw lexical relevance. Ranks are only comparable
	// within one result batch; callers rescale by the batch maximum.
	Rank float64
}
