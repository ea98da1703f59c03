package driving

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// IngestService turns a rulebook file or raw text into indexed chunks.
type IngestService interface {
	// IngestFile extracts, structures, chunks, embeds and stores a
	// rulebook file under the given game name. When merge is true the
	// chunks are appended to an existing game instead of replacing it.
	IngestFile(ctx context.Context, path, gameName string, merge bool) ([]domain.IndexedChunk, error)

	// IngestText ingests already-extracted text. Page boundaries may be
	// carried with internal page-marker tokens. An empty document yields
	// an empty chunk list, never an error.
	IngestText(ctx context.Context, text, gameName string, merge bool) ([]domain.IndexedChunk, error)
}
