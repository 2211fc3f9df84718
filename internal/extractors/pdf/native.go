package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// MIMEType is the media type handled by this package.
const MIMEType = "application/pdf"

var (
	_ driven.Extractor   = (*Native)(nil)
	_ driven.TitleSource = (*Native)(nil)
)

// Native extracts text with a pure Go PDF parser.
type Native struct{}

// NewNative creates the in-process PDF extractor.
func NewNative() *Native {
	return &Native{}
}

// Name identifies the backend.
func (n *Native) Name() string {
	return "pdf-native"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (n *Native) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Native) Priority() int {
	return 60
}

// Extract returns one page per PDF page, blank pages included.
// The parser panics on some malformed files; that becomes an error.
func (n *Native) Extract(ctx context.Context, path string) (pages []domain.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages = make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}
	return pages, nil
}

// Title reads /Title from the document Info dictionary.
func (n *Native) Title(_ context.Context, path, _ string) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	return strings.Join(strings.Fields(r.Trailer().Key("Info").Key("Title").Text()), " ")
}
