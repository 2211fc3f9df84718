package driven

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// PageExtractor turns a document into ordered page texts or fails.
// The indexer depends only on this interface.
type PageExtractor interface {
	// Extract reads the file at path and returns its pages.
	Extract(ctx context.Context, path, mimeType string) ([]domain.Page, error)
}

// Extractor is a single extraction backend.
// Several backends may handle the same MIME type; they are tried by priority.
type Extractor interface {
	// Name identifies the backend in aggregated error messages.
	Name() string

	// SupportedMIMETypes returns the MIME types this backend handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = tried first).
	Priority() int

	// Extract reads the file at path and returns its pages.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// TitleSource is implemented by extractors that can read a title from
// document metadata (PDF Info dictionary, HTML <title>, Markdown heading).
// An empty result means no title was found.
type TitleSource interface {
	Title(ctx context.Context, path, mimeType string) string
}
