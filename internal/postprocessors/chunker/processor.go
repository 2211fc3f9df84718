// Package chunker merges per-page text into retrieval units.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// DefaultSeparator joins page texts merged into one unit.
const DefaultSeparator = "\n\n"

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor merges consecutive pages until each unit reaches a minimum size.
type Processor struct {
	separator string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithSeparator sets the string placed between merged pages.
func WithSeparator(sep string) Option {
	return func(p *Processor) {
		if sep != "" {
			p.separator = sep
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		separator: DefaultSeparator,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "page-merge"
}

// buffer accumulates pages for the unit being built.
type buffer struct {
	start int
	end   int
	text  strings.Builder
	chars int
}

func (b *buffer) empty() bool {
	return b.chars == 0 && b.text.Len() == 0
}

func (b *buffer) seed(page domain.Page, text string) {
	b.start = page.Number
	b.end = page.Number
	b.text.Reset()
	b.text.WriteString(text)
	b.chars = utf8.RuneCountInString(text)
}

func (b *buffer) extend(page domain.Page, text, sep string) {
	b.end = page.Number
	b.text.WriteString(sep)
	b.text.WriteString(text)
	b.chars += utf8.RuneCountInString(sep) + utf8.RuneCountInString(text)
}

func (b *buffer) span() domain.Span {
	return domain.Span{PageStart: b.start, PageEnd: b.end, Text: b.text.String()}
}

// Chunk merges pages in order. A page seeds a new unit when the buffer is
// empty, extends it while the buffer holds fewer than minChars characters,
// and otherwise flushes the buffer and seeds the next one. Whitespace-only
// pages are skipped. The seeding page always belongs to the unit it starts,
// so minChars <= 0 yields one unit per non-empty page.
func (p *Processor) Chunk(pages []domain.Page, minChars int) []domain.Span {
	spans := make([]domain.Span, 0, len(pages))
	var buf buffer

	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}

		switch {
		case buf.empty():
			buf.seed(page, text)
		case buf.chars < minChars:
			buf.extend(page, text, p.separator)
		default:
			spans = append(spans, buf.span())
			buf.seed(page, text)
		}
	}

	if !buf.empty() {
		spans = append(spans, buf.span())
	}

	return spans
}
