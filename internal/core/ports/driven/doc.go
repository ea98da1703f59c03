// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - GameStore: Game and chunk persistence
//   - TextIndex: Sparse full-text search (SQLite FTS5)
//   - Extractor: Page-numbered text extraction from source files
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Dense cosine-similarity search. Only enabled when
//     EmbeddingService is configured.
//   - EmbeddingService: Generates vector embeddings. Without it, dense
//     search is disabled and retrieval is sparse-only.
//   - AnswerService: Answer generation. Without it, questions return
//     formatted retrieved context instead of a prose answer.
//   - PromptStore: User-editable answer prompt templates. Answer
//     adapters fall back to a built-in prompt without one.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
