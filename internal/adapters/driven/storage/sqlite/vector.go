package sqlite

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex with an exact cosine scan
// over the stored embeddings. Rulebook collections are small (hundreds
// of chunks per game), so a full scan stays well under a millisecond
// and avoids an approximate-index dependency.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Search finds the k most similar chunks to the query vector by cosine
// similarity, dropping hits below minSimilarity.
func (v *vectorIndex) Search(
	ctx context.Context, query []float32, gameID string, k int, minSimilarity float64,
) ([]driven.VectorHit, error) {
	if len(query) == 0 || k <= 0 {
		return nil, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT id, embedding FROM chunks
		WHERE embedding IS NOT NULL
		  AND (?1 = '' OR game_id = ?1)
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(query) {
			// Dimension mismatch: indexed under a different model.
			continue
		}

		similarity := cosineSimilarity(query, embedding)
		if similarity < minSimilarity {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: id, Similarity: similarity})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Normalised inputs reduce this to a dot product, but the
// norms are computed anyway to stay correct for unnormalised data.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
