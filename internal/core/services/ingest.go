package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ludica-labs/regle/internal/classify"
	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/core/ports/driving"
	"github.com/ludica-labs/regle/internal/logger"
	"github.com/ludica-labs/regle/internal/structure"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize is how many chunk texts go into one embedding request.
const embedBatchSize = 32

// defaultEmbedRate paces embedding requests so bulk ingestion does not
// saturate a local inference server.
var defaultEmbedRate = rate.Limit(4)

// IngestService turns rulebook files into indexed, embedded chunks.
type IngestService struct {
	store      driven.GameStore
	extractors map[string]driven.Extractor
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	builder    *structure.Builder
	limiter    *rate.Limiter
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithBuilder replaces the default section builder.
func WithBuilder(b *structure.Builder) IngestOption {
	return func(s *IngestService) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithEmbedRate sets the embedding request rate limit in requests per
// second.
func WithEmbedRate(perSecond float64) IngestOption {
	return func(s *IngestService) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIngestService creates a new ingest service.
// The embedder is optional (can be nil); without it chunks are indexed
// for sparse search only.
func NewIngestService(
	store driven.GameStore,
	extractors []driven.Extractor,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	opts ...IngestOption,
) *IngestService {
	byExt := make(map[string]driven.Extractor)
	for _, ex := range extractors {
		for _, ext := range ex.SupportedExtensions() {
			byExt[strings.ToLower(ext)] = ex
		}
	}

	s := &IngestService{
		store:      store,
		extractors: byExt,
		pipeline:   pipeline,
		embedder:   embedder,
		builder:    structure.New(),
		limiter:    rate.NewLimiter(defaultEmbedRate, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestFile extracts a rulebook file and ingests its text.
func (s *IngestService) IngestFile(
	ctx context.Context, path, gameName string, merge bool,
) ([]domain.IndexedChunk, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := s.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("no extractor for %q: %w", ext, domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")
	logger.Info("Extracting %s", path)

	pages, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	logger.Debug("Extracted %d pages", len(pages))

	return s.ingest(ctx, structure.JoinPages(pages), gameName, path, merge)
}

// IngestText ingests already-extracted text.
func (s *IngestService) IngestText(
	ctx context.Context, text, gameName string, merge bool,
) ([]domain.IndexedChunk, error) {
	return s.ingest(ctx, text, gameName, "", merge)
}

func (s *IngestService) ingest(
	ctx context.Context, text, gameName, sourcePath string, merge bool,
) ([]domain.IndexedChunk, error) {
	if strings.TrimSpace(gameName) == "" {
		return nil, fmt.Errorf("game name is required: %w", domain.ErrInvalidInput)
	}

	// An empty document is a normal outcome, not an error.
	if strings.TrimSpace(text) == "" {
		logger.Debug("Empty document, nothing to ingest")
		return []domain.IndexedChunk{}, nil
	}

	sections := s.builder.Build(text, gameName)
	logger.Info("Built %d sections", len(sections))
	if len(sections) == 0 {
		return []domain.IndexedChunk{}, nil
	}

	chunks, err := s.processSections(ctx, sections)
	if err != nil {
		return nil, err
	}
	logger.Info("Produced %d chunks", len(chunks))
	if len(chunks) == 0 {
		return []domain.IndexedChunk{}, nil
	}

	game, replaceID, offset, err := s.resolveGame(ctx, gameName, sourcePath, merge)
	if err != nil {
		return nil, err
	}
	logger.Debug("Game %s (%s), chunk offset %d", game.Name, game.ID, offset)

	indexed, err := s.embedChunks(ctx, game.ID, offset, chunks)
	if err != nil {
		return nil, err
	}

	// Store writes start only once the batch is fully embedded, so a
	// failing embedding backend leaves the previous index untouched.
	if replaceID != "" {
		logger.Debug("Replacing existing game %s", game.Name)
		if err := s.store.DeleteGame(ctx, replaceID); err != nil {
			return nil, fmt.Errorf("delete game: %w", err)
		}
	}
	if err := s.store.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}

	if err := s.store.InsertChunks(ctx, game.ID, indexed); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}

	game.ChunkCount = offset + len(indexed)
	game.UpdatedAt = time.Now()
	if err := s.store.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}

	logger.Info("Indexed %d chunks for %s", len(indexed), game.Name)
	return indexed, nil
}

// processSections runs every section through the processing pipeline
// and assigns its semantic category to the resulting chunks.
func (s *IngestService) processSections(
	ctx context.Context, sections []domain.Section,
) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for i := range sections {
		hierarchyPath := structure.HierarchyPath(sections, i)
		chunks, err := s.pipeline.Process(ctx, &sections[i], hierarchyPath)
		if err != nil {
			return nil, fmt.Errorf("process section %q: %w", sections[i].Title, err)
		}

		category := classify.Category(sections[i].Title, sections[i].Body)
		for j := range chunks {
			chunks[j].Category = category
		}
		out = append(out, chunks...)
	}
	return out, nil
}

// resolveGame finds or stages the game record and returns it with the
// sequential chunk offset for this batch. Re-ingesting without merge
// replaces the existing game: the replacement is staged under a fresh
// id and replaceID names the game to delete once the new batch is
// ready. resolveGame itself never writes to the store.
func (s *IngestService) resolveGame(
	ctx context.Context, gameName, sourcePath string, merge bool,
) (game *domain.Game, replaceID string, offset int, err error) {
	existing, err := s.store.GetGameByName(ctx, gameName)
	switch {
	case err == nil && merge:
		// The offset is read through the store, not trusted from the
		// game record, so merges stay contiguous.
		offset, err := s.store.ChunkCount(ctx, existing.ID)
		if err != nil {
			return nil, "", 0, fmt.Errorf("chunk count: %w", err)
		}
		if sourcePath != "" {
			existing.SourcePath = sourcePath
		}
		return existing, "", offset, nil

	case err == nil:
		replaceID = existing.ID

	case !errors.Is(err, domain.ErrNotFound):
		return nil, "", 0, fmt.Errorf("get game by name: %w", err)
	}

	now := time.Now()
	game = &domain.Game{
		ID:         uuid.NewString(),
		Name:       gameName,
		SourcePath: sourcePath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return game, replaceID, 0, nil
}

// embedChunks assigns ids, tags and embeddings to the chunk batch.
// Embedding requests are rate limited; without an embedder chunks are
// indexed with no vector.
func (s *IngestService) embedChunks(
	ctx context.Context, gameID string, offset int, chunks []domain.Chunk,
) ([]domain.IndexedChunk, error) {
	indexed := make([]domain.IndexedChunk, len(chunks))
	for i, c := range chunks {
		indexed[i] = domain.IndexedChunk{
			ID:        domain.ChunkID(gameID, offset+i),
			GameID:    gameID,
			Chunk:     c,
			Mechanics: classify.Mechanics(c.Content),
			Entities:  classify.Entities(c.Content),
			Summary:   classify.Summary(c.Content),
		}
	}

	if s.embedder == nil {
		logger.Debug("No embedder configured, skipping dense vectors")
		return indexed, nil
	}

	for start := 0; start < len(indexed); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(indexed) {
			end = len(indexed)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = indexed[i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(vectors), len(texts))
		}
		for i := start; i < end; i++ {
			indexed[i].Embedding = vectors[i-start]
		}
	}

	return indexed, nil
}
