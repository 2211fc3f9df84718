package extractors

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/extractors/docx"
	"github.com/custodia-labs/membox/internal/logger"
)

var (
	_ driven.PageExtractor = (*Chain)(nil)
	_ driven.TitleSource   = (*Chain)(nil)
)

// Chain is a priority-ordered fallback over extraction backends.
type Chain struct {
	mu       sync.RWMutex
	backends []driven.Extractor
}

// NewChain creates a chain over the given backends.
func NewChain(backends ...driven.Extractor) *Chain {
	c := &Chain{}
	for _, b := range backends {
		c.Register(b)
	}
	return c
}

// Register adds a backend. Among equal priorities, earlier registrations win.
func (c *Chain) Register(b driven.Extractor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backends = append(c.backends, b)
	sort.SliceStable(c.backends, func(i, j int) bool {
		return c.backends[i].Priority() > c.backends[j].Priority()
	})
}

// For returns the backends handling mimeType in the order they are tried.
func (c *Chain) For(mimeType string) []driven.Extractor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []driven.Extractor
	for _, b := range c.backends {
		for _, mt := range b.SupportedMIMETypes() {
			if mt == mimeType {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// Supports reports whether any backend handles mimeType.
func (c *Chain) Supports(mimeType string) bool {
	return len(c.For(mimeType)) > 0
}

// Extract tries each backend for mimeType until one yields pages.
func (c *Chain) Extract(ctx context.Context, path, mimeType string) ([]domain.Page, error) {
	backends := c.For(mimeType)
	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}

	var errs []error
	for _, b := range backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := b.Extract(ctx, path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		case len(pages) == 0:
			errs = append(errs, fmt.Errorf("%s: no pages", b.Name()))
		default:
			logger.Debug("extracted %d pages from %s with %s", len(pages), path, b.Name())
			return pages, nil
		}
		logger.Debug("extractor %s failed on %s: %v", b.Name(), path, errs[len(errs)-1])
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, errors.Join(errs...))
}

// Title returns the first non-empty metadata title offered by a backend.
func (c *Chain) Title(ctx context.Context, path, mimeType string) string {
	for _, b := range c.For(mimeType) {
		if ts, ok := b.(driven.TitleSource); ok {
			if title := ts.Title(ctx, path, mimeType); title != "" {
				return title
			}
		}
	}
	return ""
}

// knownTypes covers extensions the platform MIME table may lack.
var knownTypes = map[string]string{
	".pdf":      "application/pdf",
	".docx":     docx.MIMEType,
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".csv":      "text/csv",
	".json":     "application/json",
	".xml":      "application/xml",
}

// DetectMIMEType maps a file name to a media type by extension.
// Unknown extensions yield application/octet-stream.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := knownTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}
