package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ludica-labs/regle/internal/classify"
	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/core/ports/driving"
	"github.com/ludica-labs/regle/internal/logger"
	"github.com/ludica-labs/regle/internal/textutil"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Retrieval constants.
const (
	// searchTopN is how many candidates each search side returns before
	// fusion trims to the requested K.
	searchTopN = 20

	// aggregateTopChunks is how many top chunks per game feed the
	// aggregate score during game selection.
	aggregateTopChunks = 3

	// minNameTokenLen is the minimum length of a game-name token for
	// name-based game selection. Short tokens ("le", "jeu") match too
	// many queries.
	minNameTokenLen = 5
)

// RetrievalService selects the game a query is about and returns its
// most relevant chunks via hybrid dense/sparse search.
type RetrievalService struct {
	store     driven.GameStore
	textIndex driven.TextIndex
	vectors   driven.VectorIndex
	embedder  driven.EmbeddingService
	fuse      fusionFunc
}

// RetrievalOption configures the retrieval service.
type RetrievalOption func(*RetrievalService)

// WithWeightedSumFusion replaces the default Reciprocal Rank Fusion
// with a weighted score sum.
func WithWeightedSumFusion() RetrievalOption {
	return func(s *RetrievalService) {
		s.fuse = weightedFuse
	}
}

// NewRetrievalService creates a new retrieval service.
// textIndex, vectors and embedder are each optional (can be nil); the
// engine degrades to whichever search sides remain available.
func NewRetrievalService(
	store driven.GameStore,
	textIndex driven.TextIndex,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		store:     store,
		textIndex: textIndex,
		vectors:   vectors,
		embedder:  embedder,
		fuse:      rrfFuse,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve runs the retrieval pipeline: intent classification, game
// selection, hybrid search, fusion and hydration. A nil selection with
// a nil error means the query matched nothing.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) (*domain.GameSelection, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, no selection")
		return nil, nil
	}

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		return nil, domain.ErrNoGamesIndexed
	}

	intent := classify.Intent(query)
	logger.Debug("Intent: %s (confidence %.2f, k %d)", intent.Intent, intent.Confidence, intent.RecommendedK)

	topK := opts.TopK
	if topK <= 0 {
		topK = intent.RecommendedK
	}

	// Game selection: explicit filter, single game, name match, then
	// score aggregation as the last resort.
	if opts.GameID != "" {
		game, err := s.store.GetGame(ctx, opts.GameID)
		if err != nil {
			return nil, fmt.Errorf("get game %s: %w", opts.GameID, err)
		}
		return s.retrieveWithin(ctx, query, game, false, 0, topK, opts)
	}

	if len(games) == 1 {
		logger.Debug("Single game indexed: %s", games[0].Name)
		return s.retrieveWithin(ctx, query, &games[0], false, 0, topK, opts)
	}

	if game := matchGameByName(games, query); game != nil {
		logger.Info("Game selected by name: %s", game.Name)
		return s.retrieveWithin(ctx, query, game, true, 0, topK, opts)
	}

	return s.retrieveByAggregate(ctx, query, games, topK, opts)
}

// matchGameByName returns the game whose name tokens (of at least
// minNameTokenLen characters) appear in the folded query, or nil.
func matchGameByName(games []domain.Game, query string) *domain.Game {
	folded := textutil.Fold(query)
	for i := range games {
		for _, token := range textutil.Tokenize(games[i].Name) {
			if len(token) >= minNameTokenLen && strings.Contains(folded, token) {
				return &games[i]
			}
		}
	}
	return nil
}

// retrieveWithin searches inside one already-selected game.
func (s *RetrievalService) retrieveWithin(
	ctx context.Context, query string, game *domain.Game,
	matchedByName bool, aggregate float64, topK int, opts domain.RetrieveOptions,
) (*domain.GameSelection, error) {
	refs, stage, err := s.search(ctx, query, game.ID, opts)
	if err != nil {
		return nil, err
	}
	if len(refs) > topK {
		refs = refs[:topK]
	}

	chunks, err := s.hydrate(ctx, refs, stage, map[string]string{game.ID: game.Name})
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks matched in %s", game.Name)
		return nil, nil
	}

	return &domain.GameSelection{
		GameID:         game.ID,
		GameName:       game.Name,
		AggregateScore: aggregate,
		MatchedByName:  matchedByName,
		Chunks:         chunks,
	}, nil
}

// retrieveByAggregate searches across all games, groups the hits per
// game and selects the game with the highest sum of its top chunk
// scores. Ties break alphabetically by game name, then id, so selection
// is stable.
func (s *RetrievalService) retrieveByAggregate(
	ctx context.Context, query string, games []domain.Game, topK int, opts domain.RetrieveOptions,
) (*domain.GameSelection, error) {
	refs, stage, err := s.search(ctx, query, "", opts)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(games))
	for _, g := range games {
		names[g.ID] = g.Name
	}

	chunks, err := s.hydrate(ctx, refs, stage, names)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks matched in any game")
		return nil, nil
	}

	byGame := make(map[string][]domain.ScoredChunk)
	for _, c := range chunks {
		byGame[c.GameID] = append(byGame[c.GameID], c)
	}

	type candidate struct {
		id, name  string
		aggregate float64
	}
	candidates := make([]candidate, 0, len(byGame))
	for id, gc := range byGame {
		score := 0.0
		for i, c := range gc {
			if i == aggregateTopChunks {
				break
			}
			score += c.Score
		}
		candidates = append(candidates, candidate{id: id, name: names[id], aggregate: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].aggregate != candidates[j].aggregate {
			return candidates[i].aggregate > candidates[j].aggregate
		}
		if candidates[i].name != candidates[j].name {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].id < candidates[j].id
	})

	best := candidates[0]
	logger.Info("Game selected by aggregate score: %s (%.4f)", best.name, best.aggregate)

	selected := byGame[best.id]
	if len(selected) > topK {
		selected = selected[:topK]
	}

	return &domain.GameSelection{
		GameID:         best.id,
		GameName:       best.name,
		AggregateScore: best.aggregate,
		MatchedByName:  false,
		Chunks:         selected,
	}, nil
}

// search runs the dense and sparse sides and fuses them. One side
// failing degrades the request to the other side; both failing is a
// typed error. The returned stage tags the score scale of the refs.
func (s *RetrievalService) search(
	ctx context.Context, query, gameID string, opts domain.RetrieveOptions,
) ([]scoredRef, domain.ScoreStage, error) {
	if !opts.Hybrid {
		refs, err := s.denseSearch(ctx, query, gameID, opts.MinSimilarity)
		if err != nil {
			return nil, "", err
		}
		return refs, domain.StageDense, nil
	}

	var dense, sparse []scoredRef
	var denseErr, sparseErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dense, denseErr = s.denseSearch(ctx, query, gameID, opts.MinSimilarity)
	}()
	go func() {
		defer wg.Done()
		sparse, sparseErr = s.sparseSearch(ctx, query, gameID)
	}()
	wg.Wait()

	switch {
	case denseErr != nil && sparseErr != nil:
		logger.Warn("Hybrid search: both sides failed (dense: %v, sparse: %v)", denseErr, sparseErr)
		return nil, "", fmt.Errorf("dense: %v, sparse: %v: %w", denseErr, sparseErr, domain.ErrRetrievalUnavailable)
	case denseErr != nil:
		logger.Warn("Hybrid search: dense side failed, degrading to sparse only: %v", denseErr)
		return sparse, domain.StageSparse, nil
	case sparseErr != nil:
		logger.Warn("Hybrid search: sparse side failed, degrading to dense only: %v", sparseErr)
		return dense, domain.StageDense, nil
	}

	logger.Debug("Fusing %d dense + %d sparse results", len(dense), len(sparse))
	return s.fuse(dense, sparse), domain.StageFused, nil
}

// denseSearch embeds the query and asks the vector index for the most
// similar chunks.
func (s *RetrievalService) denseSearch(
	ctx context.Context, query, gameID string, minSimilarity float64,
) ([]scoredRef, error) {
	if s.vectors == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectors.Search(ctx, embedding, gameID, searchTopN, minSimilarity)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Dense search: %d hits", len(hits))

	refs := make([]scoredRef, len(hits))
	for i, hit := range hits {
		refs[i] = scoredRef{chunkID: hit.ChunkID, score: hit.Similarity}
	}
	return refs, nil
}

// sparseSearch normalises the query into a boolean expression and asks
// the full-text index for the best lexical matches. Raw ranks are
// rescaled by the batch maximum into [0, 1].
func (s *RetrievalService) sparseSearch(ctx context.Context, query, gameID string) ([]scoredRef, error) {
	if s.textIndex == nil {
		return nil, domain.ErrTextIndexUnavailable
	}

	match := textutil.MatchQuery(query)
	if match == "" {
		logger.Debug("Sparse search: query normalised to nothing")
		return nil, nil
	}

	hits, err := s.textIndex.Search(ctx, match, gameID, searchTopN)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	logger.Debug("Sparse search: %d hits", len(hits))

	maxRank := 0.0
	for _, hit := range hits {
		if hit.Rank > maxRank {
			maxRank = hit.Rank
		}
	}

	refs := make([]scoredRef, len(hits))
	for i, hit := range hits {
		score := 0.0
		if maxRank > 0 {
			score = hit.Rank / maxRank
		}
		refs[i] = scoredRef{chunkID: hit.ChunkID, score: score}
	}
	return refs, nil
}

// hydrate resolves chunk ids into full scored chunks. Chunks deleted
// since indexing are skipped, not errors.
func (s *RetrievalService) hydrate(
	ctx context.Context, refs []scoredRef, stage domain.ScoreStage, names map[string]string,
) ([]domain.ScoredChunk, error) {
	chunks := make([]domain.ScoredChunk, 0, len(refs))
	for _, ref := range refs {
		chunk, err := s.store.GetChunk(ctx, ref.chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", ref.chunkID, err)
		}
		chunks = append(chunks, domain.ScoredChunk{
			Chunk:    *chunk,
			Score:    ref.score,
			Stage:    stage,
			GameID:   chunk.GameID,
			GameName: names[chunk.GameID],
		})
	}
	return chunks, nil
}
