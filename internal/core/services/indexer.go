package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// MIMEDetector maps a file path to its media type.
type MIMEDetector func(path string) string

// IndexService fingerprints documents and rebuilds their chunks on change.
type IndexService struct {
	docStore  driven.DocumentStore
	extractor driven.PageExtractor
	chunker   driven.Chunker
	detect    MIMEDetector
	titles    driven.TitleSource
	newID     func() string
	now       func() time.Time
}

// IndexOption configures an IndexService.
type IndexOption func(*IndexService)

// WithTitleSource reads titles from document metadata before falling back
// to the first line of text.
func WithTitleSource(src driven.TitleSource) IndexOption {
	return func(s *IndexService) {
		s.titles = src
	}
}

// WithIDGenerator overrides how document and chunk IDs are minted.
func WithIDGenerator(fn func() string) IndexOption {
	return func(s *IndexService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source for document timestamps.
func WithClock(fn func() time.Time) IndexOption {
	return func(s *IndexService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewIndexService creates a new index service.
// A nil detect treats every file as application/pdf.
func NewIndexService(
	docStore driven.DocumentStore,
	extractor driven.PageExtractor,
	chunker driven.Chunker,
	detect MIMEDetector,
	opts ...IndexOption,
) *IndexService {
	if detect == nil {
		detect = func(string) string { return "application/pdf" }
	}
	s := &IndexService{
		docStore:  docStore,
		extractor: extractor,
		chunker:   chunker,
		detect:    detect,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexDocument indexes one file. Pages are extracted before anything is
// written, so a failed extraction leaves the previous chunks in place.
func (s *IndexService) IndexDocument(
	ctx context.Context, path string, opts domain.IndexOptions,
) (*domain.IndexResult, error) {
	opts = opts.WithDefaults()

	locator, err := s.locateFile(path)
	if err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(locator)
	if err != nil {
		return nil, err
	}

	existing, err := s.docStore.GetDocumentByLocator(ctx, locator)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up %s: %w", locator, err)
	}

	if existing != nil && existing.Fingerprint == fingerprint && !opts.Force {
		n, err := s.docStore.CountChunks(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("counting chunks: %w", err)
		}
		logger.Debug("Unchanged: %s (%d chunks)", locator, n)
		return &domain.IndexResult{
			DocumentID: existing.ID,
			Locator:    locator,
			Status:     domain.IndexStatusUnchanged,
			Chunks:     n,
		}, nil
	}

	mimeType := s.detect(locator)
	logger.Debug("Extracting %s (%s)", locator, mimeType)

	pages, err := s.extractor.Extract(ctx, locator, mimeType)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", locator, err)
	}

	spans := s.chunker.Chunk(pages, opts.MinChars)
	logger.Debug("Chunked %d pages into %d units (min %d chars)", len(pages), len(spans), opts.MinChars)

	now := s.now()
	doc := &domain.Document{
		ID:          s.newID(),
		Locator:     locator,
		Fingerprint: fingerprint,
		Title:       s.title(ctx, locator, mimeType, pages),
		MIMEType:    mimeType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	}

	chunks := make([]domain.Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = domain.NewChunk(s.newID(), doc.ID, i, span)
	}

	if err := s.docStore.ReplaceDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("saving %s: %w", locator, err)
	}

	logger.Info("Indexed %s: %d chunks", locator, len(chunks))
	return &domain.IndexResult{
		DocumentID: doc.ID,
		Locator:    locator,
		Status:     domain.IndexStatusIndexed,
		Chunks:     len(chunks),
	}, nil
}

// IndexPath indexes a file, or every matching regular file in a directory.
func (s *IndexService) IndexPath(
	ctx context.Context, path string, opts domain.IndexOptions,
) (*domain.BatchResult, error) {
	logger.Section("Indexing")
	opts = opts.WithDefaults()

	files, err := s.expand(path, opts.Glob)
	if err != nil {
		return nil, err
	}
	logger.Debug("Indexing %d files from %s (glob %q)", len(files), path, opts.Glob)

	return s.indexAll(ctx, files, opts)
}

// Reindex re-indexes path, or every known document when path is empty.
// An empty path with no known documents is ErrNotFound.
func (s *IndexService) Reindex(
	ctx context.Context, path string, opts domain.IndexOptions,
) (*domain.BatchResult, error) {
	if path != "" {
		return s.IndexPath(ctx, path, opts)
	}

	logger.Section("Reindexing")
	opts = opts.WithDefaults()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to reindex: %w", domain.ErrNotFound)
	}

	files := make([]string, len(docs))
	for i, d := range docs {
		files[i] = d.Locator
	}
	logger.Debug("Reindexing %d known documents", len(files))

	return s.indexAll(ctx, files, opts)
}

// indexAll indexes files in order, recording per-file failures.
// Only cancellation stops the batch early.
func (s *IndexService) indexAll(
	ctx context.Context, files []string, opts domain.IndexOptions,
) (*domain.BatchResult, error) {
	batch := domain.NewBatchResult()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		res, err := s.IndexDocument(ctx, f, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return batch, ctxErr
			}
			logger.Warn("Failed to index %s: %v", f, err)
			batch.Fail(f, err)
			continue
		}
		batch.Add(*res)
	}

	logger.Debug("Batch complete: total=%d indexed=%d unchanged=%d errors=%d",
		batch.Total, batch.Indexed, batch.Unchanged, len(batch.Errors))
	return batch, nil
}

// expand resolves path to a sorted list of files.
func (s *IndexService) expand(path, glob string) ([]string, error) {
	root, err := CanonicalPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", root, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	matches, err := filepath.Glob(filepath.Join(root, glob))
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %w", domain.ErrInvalidInput, glob, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// locateFile canonicalises path and checks it is a regular file.
func (s *IndexService) locateFile(path string) (string, error) {
	locator, err := CanonicalPath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(locator)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", locator, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", locator, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, locator)
	}
	return locator, nil
}

// title prefers document metadata, then the first line of text, then the file name.
func (s *IndexService) title(ctx context.Context, locator, mimeType string, pages []domain.Page) string {
	if s.titles != nil {
		if t := s.titles.Title(ctx, locator, mimeType); t != "" {
			return t
		}
	}
	return domain.DeriveTitle(pages, locator)
}

// Fingerprint returns the hex SHA-256 of the file's bytes.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
