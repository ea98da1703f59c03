package driven

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// GameStore provides persistence for games and their indexed chunks.
type GameStore interface {
	// SaveGame stores or updates a game.
	SaveGame(ctx context.Context, game *domain.Game) error

	// GetGame retrieves a game by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetGame(ctx context.Context, id string) (*domain.Game, error)

	// GetGameByName retrieves a game by its display name.
	// Returns domain.ErrNotFound if it does not exist.
	GetGameByName(ctx context.Context, name string) (*domain.Game, error)

	// ListGames returns all indexed games.
	ListGames(ctx context.Context) ([]domain.Game, error)

	// DeleteGame removes a game and all of its chunks.
	DeleteGame(ctx context.Context, id string) error

	// ChunkCount returns the number of stored chunks for a game. This
	// is the sequential offset base for the next ingestion batch.
	ChunkCount(ctx context.Context, gameID string) (int, error)

	// InsertChunks atomically inserts one ingestion batch. Either every
	// chunk is committed or none is; an id collision fails the whole
	// batch with domain.ErrBatchConflict.
	InsertChunks(ctx context.Context, gameID string, chunks []domain.IndexedChunk) error

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetChunk(ctx context.Context, id string) (*domain.IndexedChunk, error)

	// Close releases resources.
	Close() error
}
