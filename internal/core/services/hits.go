package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// scoredChunk holds intermediate search results before hydration.
type scoredChunk struct {
	chunkID string
	score   float64
	snippet string
}

// hydrator turns chunk IDs into search hits, caching parent documents.
type hydrator struct {
	docStore driven.DocumentStore
	docs     map[string]*domain.Document
}

func newHydrator(docStore driven.DocumentStore) *hydrator {
	return &hydrator{
		docStore: docStore,
		docs:     make(map[string]*domain.Document),
	}
}

// hit builds a SearchHit. Chunks deleted since scoring report ErrNotFound.
func (h *hydrator) hit(ctx context.Context, sc scoredChunk, maxChars int) (*domain.SearchHit, error) {
	chunk, err := h.docStore.GetChunk(ctx, sc.chunkID)
	if err != nil {
		return nil, err
	}

	doc, ok := h.docs[chunk.DocumentID]
	if !ok {
		doc, err = h.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			return nil, err
		}
		h.docs[chunk.DocumentID] = doc
	}

	return &domain.SearchHit{
		Locator:     doc.Locator,
		Title:       doc.Title,
		DocumentID:  doc.ID,
		ChunkID:     chunk.ID,
		PageStart:   chunk.PageStart,
		PageEnd:     chunk.PageEnd,
		Score:       sc.score,
		Snippet:     sc.snippet,
		TextPreview: truncateRunes(chunk.Content, maxChars),
	}, nil
}

// hits hydrates chunks in order, skipping any that vanished mid-query.
func (h *hydrator) hits(ctx context.Context, chunks []scoredChunk, maxChars int) ([]domain.SearchHit, error) {
	out := make([]domain.SearchHit, 0, len(chunks))
	for _, sc := range chunks {
		hit, err := h.hit(ctx, sc, maxChars)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("hydrating chunk %s: %w", sc.chunkID, err)
		}
		out = append(out, *hit)
	}
	return out, nil
}

// resolveDocument finds a document by ID, then by locator.
// Relative paths are resolved against the working directory.
func resolveDocument(ctx context.Context, docStore driven.DocumentStore, ref string) (*domain.Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: document reference is empty", domain.ErrInvalidInput)
	}

	doc, err := docStore.GetDocument(ctx, ref)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	doc, err = docStore.GetDocumentByLocator(ctx, ref)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if locator, cerr := CanonicalPath(ref); cerr == nil && locator != ref {
		if doc, err = docStore.GetDocumentByLocator(ctx, locator); err == nil {
			return doc, nil
		}
	}

	return nil, fmt.Errorf("document %q: %w", ref, domain.ErrNotFound)
}

// truncateRunes shortens s to at most n runes, appending an ellipsis when cut.
// A non-positive n leaves s unchanged.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
