package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ludica-labs/regle/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Ensure Store implements the interface.
var _ driven.GameStore = (*Store)(nil)

// Store is the SQLite-backed game store. The same database also backs
// the FTS5 text index and the vector index; TextIndex() and
// VectorIndex() return those views over the shared connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.regle/data/regle.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".regle", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "regle.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TextIndex returns the FTS5 sparse index backed by this store.
func (s *Store) TextIndex() driven.TextIndex {
	return &textIndex{store: s}
}

// VectorIndex returns the dense index backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Games ====================

// SaveGame stores or updates a game.
func (s *Store) SaveGame(ctx context.Context, game *domain.Game) error {
	now := time.Now().UTC()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	game.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, name, source_path, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			source_path = excluded.source_path,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`, game.ID, game.Name, game.SourcePath, game.ChunkCount, game.CreatedAt, game.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: games.name") {
			return fmt.Errorf("game %q: %w", game.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("saving game: %w", err)
	}
	return nil
}

// GetGame retrieves a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_path, chunk_count, created_at, updated_at
		FROM games WHERE id = ?
	`, id)
	return scanGame(row)
}

// GetGameByName retrieves a game by its display name.
func (s *Store) GetGameByName(ctx context.Context, name string) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_path, chunk_count, created_at, updated_at
		FROM games WHERE name = ?
	`, name)
	return scanGame(row)
}

// ListGames returns all indexed games ordered by name.
func (s *Store) ListGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source_path, chunk_count, created_at, updated_at
		FROM games ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game //nolint:prealloc // size unknown from query
	for rows.Next() {
		var game domain.Game
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&game.ID, &game.Name, &game.SourcePath,
			&game.ChunkCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		if createdAt.Valid {
			game.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			game.UpdatedAt = updatedAt.Time
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}

	return games, nil
}

// DeleteGame removes a game and all of its chunks.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Explicit chunk delete keeps the FTS triggers firing even when
	// foreign keys are off for a session.
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE game_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Chunks ====================

// ChunkCount returns the number of stored chunks for a game.
func (s *Store) ChunkCount(ctx context.Context, gameID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE game_id = ?", gameID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// InsertChunks atomically inserts one ingestion batch. The whole batch
// rolls back on any id collision, leaving the id sequence contiguous.
func (s *Store) InsertChunks(ctx context.Context, gameID string, chunks []domain.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, game_id, content, section_title, hierarchy_path,
			chunk_index, chunk_count, category, page_start, page_end,
			embedding, mechanics, entities, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		mechanicsJSON, err := marshalStrings(chunk.Mechanics)
		if err != nil {
			return fmt.Errorf("marshalling mechanics: %w", err)
		}
		entitiesJSON, err := marshalStrings(chunk.Entities)
		if err != nil {
			return fmt.Errorf("marshalling entities: %w", err)
		}

		_, err = stmt.ExecContext(ctx, chunk.ID, gameID, chunk.Content,
			chunk.SectionTitle, chunk.HierarchyPath, chunk.Index, chunk.Count,
			string(chunk.Category), chunk.PageStart, chunk.PageEnd,
			float32SliceToBytes(chunk.Embedding), mechanicsJSON, entitiesJSON, chunk.Summary)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("chunk %s: %w", chunk.ID, domain.ErrBatchConflict)
			}
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id string) (*domain.IndexedChunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, game_id, content, section_title, hierarchy_path,
			chunk_index, chunk_count, category, page_start, page_end,
			embedding, mechanics, entities, summary
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.IndexedChunk
	var category string
	var embeddingBlob []byte
	var mechanicsJSON, entitiesJSON string
	err := row.Scan(&chunk.ID, &chunk.GameID, &chunk.Content,
		&chunk.SectionTitle, &chunk.HierarchyPath, &chunk.Index, &chunk.Count,
		&category, &chunk.PageStart, &chunk.PageEnd,
		&embeddingBlob, &mechanicsJSON, &entitiesJSON, &chunk.Summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Category = domain.SectionCategory(category)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if chunk.Mechanics, err = unmarshalStrings(mechanicsJSON); err != nil {
		return nil, fmt.Errorf("unmarshaling mechanics: %w", err)
	}
	if chunk.Entities, err = unmarshalStrings(entitiesJSON); err != nil {
		return nil, fmt.Errorf("unmarshaling entities: %w", err)
	}

	return &chunk, nil
}

// ==================== Helper Functions ====================

// scanGame scans a single game row.
func scanGame(row *sql.Row) (*domain.Game, error) {
	var game domain.Game
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&game.ID, &game.Name, &game.SourcePath,
		&game.ChunkCount, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning game: %w", err)
	}
	if createdAt.Valid {
		game.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		game.UpdatedAt = updatedAt.Time
	}
	return &game, nil
}

// marshalStrings encodes a string slice as JSON for storage.
func marshalStrings(values []string) (string, error) {
	if len(values) == 0 {
		return jsonNull, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalStrings decodes a stored JSON string slice.
func unmarshalStrings(data string) ([]string, error) {
	if data == "" || data == jsonNull {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
