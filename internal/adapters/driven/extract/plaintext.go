package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
)

// Ensure PlainTextExtractor implements the interface.
var _ driven.Extractor = (*PlainTextExtractor)(nil)

// formFeed separates pages in plain-text exports of PDF tools.
const formFeed = "\f"

// PlainTextExtractor reads .txt and .md rulebooks. Form feeds split
// the file into pages; without them the whole file is page 1.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a new plain-text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PlainTextExtractor) SupportedExtensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the file and returns its pages in order.
func (e *PlainTextExtractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	parts := strings.Split(string(data), formFeed)
	pages := make([]domain.Page, 0, len(parts))
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i + 1, Text: part})
	}

	return pages, nil
}
