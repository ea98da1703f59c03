package domain

// ScoreStage identifies which retrieval stage produced a score.
// Dense cosine similarity, rescaled lexical rank and fused rank score
// live on three different scales; the stage tag prevents accidental
// cross-stage comparison.
type ScoreStage string

// Score stages.
const (
	// StageDense is raw cosine similarity in [-1, 1].
	StageDense ScoreStage = "dense"

	// StageSparse is lexical rank rescaled into [0, 1].
	StageSparse ScoreStage = "sparse"

	// StageFused is a rank-based fusion score. Only comparable to other
	// fused scores from the same query.
	StageFused ScoreStage = "fused"
)

// ScoredChunk is a chunk paired with a stage-tagged relevance score.
type ScoredChunk struct {
	// Chunk is the matched indexed chunk.
	Chunk IndexedChunk

	// Score is the relevance score; its scale depends on Stage.
	Score float64

	// Stage identifies the scale Score is expressed in.
	Stage ScoreStage

	// GameID is the owning game.
	GameID string

	// GameName is the owning game's display name.
	GameName string
}

// GameSelection is the outcome of choosing which indexed game answers a
// query, plus its top chunks. A nil selection means the query matched
// nothing; that is a normal outcome, not an error.
type GameSelection struct {
	// GameID is the selected game.
	GameID string

	// GameName is the selected game's display name.
	GameName string

	// AggregateScore is the sum of the game's top-3 chunk scores.
	// Zero when the game was selected by name or was the only game.
	AggregateScore float64

	// MatchedByName is true when the game was selected because its name
	// appeared in the query rather than by score aggregation.
	MatchedByName bool

	// Chunks are the top-K chunks for the query within the game,
	// ordered by descending fused score.
	Chunks []ScoredChunk
}

// RetrieveOptions configures a retrieval request.
type RetrieveOptions struct {
	// GameID restricts retrieval to one game. Empty means the engine
	// selects the game itself.
	GameID string

	// TopK is the number of chunks to return. Zero means the intent
	// classifier's recommendation is used.
	TopK int

	// Hybrid enables sparse search fused with dense search.
	// When false, retrieval is dense-only.
	Hybrid bool

	// MinSimilarity drops dense hits below this cosine similarity.
	MinSimilarity float64
}

// Answer is the result of answer generation over retrieved context.
type Answer struct {
	// Text is the answer, or the formatted context when no generator
	// is configured.
	Text string

	// Model is the name of the model that produced the answer.
	Model string

	// Generated is false when Text is raw retrieved context.
	Generated bool
}
