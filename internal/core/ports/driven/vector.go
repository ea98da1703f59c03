package driven

import "context"

// VectorIndex provides dense similarity search operations over stored
// chunk embeddings.
type VectorIndex interface {
	// Search finds the k most similar chunks to the query vector by
	// cosine similarity. gameID restricts the search to one game; empty
	// searches all games. Hits below minSimilarity are dropped.
	Search(ctx context.Context, query []float32, gameID string, k int, minSimilarity float64) ([]VectorHit, error)
}

// VectorHit is a dense search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}
