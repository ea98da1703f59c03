package driven

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// PostProcessor processes one section to produce chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, tagging).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a section and returns chunks.
	// If the processor creates chunks (e.g., the chunker), it receives
	// nil and returns new chunks. If it enriches chunks (e.g., a
	// tagger), it receives and returns the chunks.
	// hierarchyPath is the chain of ancestor titles for the section.
	Process(ctx context.Context, section *domain.Section, hierarchyPath string, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the section through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, section *domain.Section, hierarchyPath string) ([]domain.Chunk, error)
}
