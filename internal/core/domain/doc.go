// Package domain defines the core business entities for Regle.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Game: An indexed rulebook
//   - Section: A titled, levelled span of rulebook text
//   - Chunk: A word-bounded fragment of a section, sized for embedding
//   - IndexedChunk: A persisted chunk with its embedding and metadata
//   - GameSelection: The outcome of choosing which game answers a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
