package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/ludica-labs/regle/internal/core/domain"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/logger"
)

// Ensure PDFExtractor implements the interface.
var _ driven.Extractor = (*PDFExtractor)(nil)

// PDFExtractor extracts per-page text from PDF rulebooks.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PDFExtractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract reads the PDF and returns its pages in order. Pages whose
// text cannot be extracted are skipped with a warning rather than
// failing the whole document; scanned-image pages simply come out
// empty.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer file.Close()

	pageCount := reader.NumPage()
	pages := make([]domain.Page, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Failed to extract text from page %d of %s: %v", i, path, err)
			continue
		}

		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	return pages, nil
}
