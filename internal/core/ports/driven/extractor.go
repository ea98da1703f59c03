package driven

import (
	"context"

	"github.com/ludica-labs/regle/internal/core/domain"
)

// Extractor produces page-numbered text from a source file.
// Each extractor handles specific file extensions (e.g., .pdf, .txt).
type Extractor interface {
	// SupportedExtensions returns the lowercase file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract reads the file and returns its pages in order.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}
