package sqlite

import (
	"context"
	"fmt"

	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// textIndex implements driven.TextIndex over the chunks_fts FTS5 table.
type textIndex struct {
	store *Store
}

var _ driven.TextIndex = (*textIndex)(nil)

// BM25 per-field weights: section title counts most, hierarchy path
// next, body least, biasing results toward chunks whose titles match
// the query.
const (
	bm25TitleWeight     = 4.0
	bm25HierarchyWeight = 2.0
	bm25ContentWeight   = 1.0
)

// Search performs a lexical search for a normalised boolean query
// expression. Ranks are returned positive, higher meaning better;
// they are only comparable within one batch.
func (t *textIndex) Search(ctx context.Context, query, gameID string, limit int) ([]driven.TextHit, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	// SQLite's bm25() is negative with better matches more negative;
	// negating gives a positive higher-is-better rank.
	rows, err := t.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT c.id, -bm25(chunks_fts, %f, %f, %f) AS rank
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		WHERE chunks_fts MATCH ?
		  AND (?2 = '' OR c.game_id = ?2)
		ORDER BY rank DESC
		LIMIT ?3
	`, bm25TitleWeight, bm25HierarchyWeight, bm25ContentWeight), query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var hits []driven.TextHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit driven.TextHit
		if err := rows.Scan(&hit.ChunkID, &hit.Rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}

	return hits, nil
}
