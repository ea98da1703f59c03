package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// stubProcessor appends one marker chunk per call.
type stubProcessor struct {
	name string
	err  error
}

func (p *stubProcessor) Name() string { return p.name }

func (p *stubProcessor) Process(
	_ context.Context, _ *domain.Section, _ string, chunks []domain.Chunk,
) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	return append(chunks, domain.Chunk{Content: p.name}), nil
}

func TestPipeline_RunsProcessorsInOrder(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "first"}, &stubProcessor{name: "second"})

	chunks, err := pipeline.Process(context.Background(), &domain.Section{Body: "texte"}, "Règles")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
}

func TestPipeline_NilSection(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "only"})

	_, err := pipeline.Process(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestPipeline_ProcessorErrorNamed(t *testing.T) {
	boom := errors.New("boom")
	pipeline := NewPipeline(&stubProcessor{name: "broken", err: boom})

	_, err := pipeline.Process(context.Background(), &domain.Section{Body: "texte"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestPipeline_Add(t *testing.T) {
	pipeline := NewPipeline()
	assert.Equal(t, 0, pipeline.Len())

	pipeline.Add(&stubProcessor{name: "late"})
	assert.Equal(t, 1, pipeline.Len())
}

func TestRegistry_BuildChunkerDefaults(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	assert.True(t, registry.Has("chunker"))
	assert.Contains(t, registry.Names(), "chunker")

	processor, err := registry.Build("chunker", nil)
	require.NoError(t, err)
	assert.Equal(t, "chunker", processor.Name())
}

func TestRegistry_BuildChunkerWithConfig(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	// TOML delivers int64, JSON float64; both must work.
	processor, err := registry.Build("chunker", map[string]any{
		"target_words":  int64(100),
		"max_words":     float64(150),
		"min_words":     20,
		"overlap_words": int64(10),
	})
	require.NoError(t, err)

	section := &domain.Section{Body: longBody(160)}
	chunks, err := processor.Process(context.Background(), section, "Règles", nil)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
}

func TestRegistry_UnknownProcessor(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Build("absent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent")
}

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// longBody builds a body of n words split into ten-word paragraphs.
func longBody(n int) string {
	body := ""
	for i := 0; i < n; i++ {
		if i > 0 && i%10 == 0 {
			body += "\n\n"
		}
		body += "mot "
	}
	return body
}
