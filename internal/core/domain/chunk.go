package domain

import (
	"strconv"
	"strings"
)

// Chunk is a word-bounded, possibly overlapping fragment of a section,
// sized for embedding. Chunks are owned by the ingestion run until they
// are embedded and persisted as IndexedChunks.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// SectionTitle is the title of the section this chunk came from.
	SectionTitle string

	// HierarchyPath is the chain of ancestor section titles leading to
	// this chunk's section, joined by " > ".
	HierarchyPath string

	// Index is the 0-based position among the section's chunks.
	Index int

	// Count is the total number of chunks produced for the section.
	// Invariant: 0 <= Index < Count.
	Count int

	// Category is the semantic category assigned by the type classifier.
	Category SectionCategory

	// PageStart is the first source page (0 when unknown).
	PageStart int

	// PageEnd is the last source page (0 when unknown).
	PageEnd int
}

// WordCount returns the number of whitespace-separated words in the content.
func (c Chunk) WordCount() int {
	return len(strings.Fields(c.Content))
}

// IndexedChunk is the persisted view of a chunk used by retrieval.
// Ownership transfers to the storage adapter once inserted.
type IndexedChunk struct {
	// ID is unique within a game and stable across incremental merges.
	// It is computed as gameID + "_" + sequentialOffset, where the
	// offset accounts for chunks already stored when merging.
	ID string

	// GameID links to the parent Game.
	GameID string

	Chunk

	// Embedding is the dense vector representation. Dimension is fixed
	// per deployment by the embedding model.
	Embedding []float32

	// Mechanics are game-mechanic keywords detected in the content.
	Mechanics []string

	// Entities are named game pieces or concepts detected in the content.
	Entities []string

	// Summary is a one-line description of the chunk.
	Summary string
}

// ChunkID builds the stable chunk identifier for a game and offset.
func ChunkID(gameID string, offset int) string {
	return gameID + "_" + strconv.Itoa(offset)
}
