package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoGamesIndexed indicates retrieval was attempted before any
	// rulebook was ingested.
	ErrNoGamesIndexed = errors.New("no games indexed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Dense search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrTextIndexUnavailable indicates the full-text index is not
	// configured. Sparse search is disabled.
	ErrTextIndexUnavailable = errors.New("text index unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Dense search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRetrievalUnavailable indicates both the dense and sparse sides
	// of the retrieval engine failed for a request. One side failing
	// degrades; both failing is a typed error, never a silent empty
	// result.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrAnswerUnavailable indicates no answer generator is configured.
	ErrAnswerUnavailable = errors.New("answer generator unavailable")

	// ErrBatchConflict indicates a chunk id collision or gap was
	// detected while inserting an ingestion batch. The batch rolls back
	// and the caller must retry the ingestion from scratch.
	ErrBatchConflict = errors.New("chunk batch conflict")
)
