package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/core/ports/driving"
	"github.com/ludica-labs/regle/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers questions by retrieving rulebook context and,
// when a generator is configured, producing a prose answer from it.
type AskService struct {
	retrieval driving.RetrievalService
	answerer  driven.AnswerService
}

// NewAskService creates a new ask service.
// The answerer is optional (can be nil); without it Ask returns the
// formatted retrieved context as the answer text.
func NewAskService(retrieval driving.RetrievalService, answerer driven.AnswerService) *AskService {
	return &AskService{
		retrieval: retrieval,
		answerer:  answerer,
	}
}

// Ask retrieves context for the question and generates an answer.
// A nil selection means nothing matched; the answer is nil too.
func (s *AskService) Ask(
	ctx context.Context, question string, opts domain.RetrieveOptions,
) (*domain.Answer, *domain.GameSelection, error) {
	selection, err := s.retrieval.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, nil, err
	}
	if selection == nil || len(selection.Chunks) == 0 {
		return nil, nil, nil
	}

	formatted := formatContext(selection)

	if s.answerer == nil {
		logger.Debug("No answer generator configured, returning raw context")
		return &domain.Answer{Text: formatted, Generated: false}, selection, nil
	}

	answer, err := s.answerer.Answer(ctx, question, formatted)
	if err != nil {
		// A broken generator should not hide good retrieval results.
		logger.Warn("Answer generation failed, returning raw context: %v", err)
		return &domain.Answer{Text: formatted, Generated: false}, selection, nil
	}
	return answer, selection, nil
}

// formatContext renders the selected chunks as a titled context block
// for the answer generator and for generator-less output.
func formatContext(selection *domain.GameSelection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Jeu : %s\n", selection.GameName)
	for _, sc := range selection.Chunks {
		b.WriteString("\n## ")
		if sc.Chunk.HierarchyPath != "" {
			b.WriteString(sc.Chunk.HierarchyPath)
		} else {
			b.WriteString(sc.Chunk.SectionTitle)
		}
		if sc.Chunk.PageStart > 0 {
			if sc.Chunk.PageEnd > sc.Chunk.PageStart {
				fmt.Fprintf(&b, " (p. %d-%d)", sc.Chunk.PageStart, sc.Chunk.PageEnd)
			} else {
				fmt.Fprintf(&b, " (p. %d)", sc.Chunk.PageStart)
			}
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(sc.Chunk.Content))
		b.WriteString("\n")
	}
	return b.String()
}
