// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file backs three ports:
//
//   - GameStore: game and chunk persistence
//   - TextIndex: sparse search via an FTS5 virtual table with BM25 ranking
//   - VectorIndex: dense search via an exact cosine scan over stored embeddings
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Triggers keep the FTS5 table in sync with the chunks table, and the FTS
// tokeniser (unicode61 remove_diacritics 2) folds accents the same way query
// normalisation does.
//
// # Data Location
//
// By default, the database is stored at ~/.regle/data/regle.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
