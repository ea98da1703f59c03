// Package memory provides in-memory driven-port implementations,
// used in tests and as a lightweight store when persistence is not
// needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// Ensure GameStore implements the interface.
var _ driven.GameStore = (*GameStore)(nil)

// GameStore is an in-memory implementation of driven.GameStore.
type GameStore struct {
	mu     sync.RWMutex
	games  map[string]domain.Game
	chunks map[string][]domain.IndexedChunk // by game ID, insertion order
}

// NewGameStore creates a new in-memory game store.
func NewGameStore() *GameStore {
	return &GameStore{
		games:  make(map[string]domain.Game),
		chunks: make(map[string][]domain.IndexedChunk),
	}
}

// SaveGame stores or updates a game.
func (s *GameStore) SaveGame(_ context.Context, game *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = *game
	return nil
}

// GetGame retrieves a game by ID.
func (s *GameStore) GetGame(_ context.Context, id string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &game, nil
}

// GetGameByName retrieves a game by its display name.
func (s *GameStore) GetGameByName(_ context.Context, name string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.games {
		if s.games[id].Name == name {
			game := s.games[id]
			return &game, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListGames returns all indexed games ordered by name, matching the
// SQLite store.
func (s *GameStore) ListGames(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]domain.Game, 0, len(s.games))
	for id := range s.games {
		games = append(games, s.games[id])
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

// DeleteGame removes a game and all of its chunks.
func (s *GameStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	delete(s.chunks, id)
	return nil
}

// ChunkCount returns the number of stored chunks for a game.
func (s *GameStore) ChunkCount(_ context.Context, gameID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[gameID]), nil
}

// InsertChunks atomically inserts one ingestion batch. The batch is
// validated against existing ids before anything is appended, so a
// conflict leaves the store untouched.
func (s *GameStore) InsertChunks(_ context.Context, gameID string, chunks []domain.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.chunks[gameID]))
	for _, c := range s.chunks[gameID] {
		existing[c.ID] = struct{}{}
	}
	for _, c := range chunks {
		if _, dup := existing[c.ID]; dup {
			return domain.ErrBatchConflict
		}
		existing[c.ID] = struct{}{}
	}

	s.chunks[gameID] = append(s.chunks[gameID], chunks...)
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *GameStore) GetChunk(_ context.Context, id string) (*domain.IndexedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for i := range chunks {
			if chunks[i].ID == id {
				chunk := chunks[i]
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// Close releases resources.
func (s *GameStore) Close() error {
	return nil
}
