// Package docx extracts text from Word documents.
//
// DOCX has no fixed layout, so pages follow explicit page breaks. A
// document without breaks is a single page.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// MIMEType is the media type of Office Open XML word documents.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	_ driven.Extractor   = (*Extractor)(nil)
	_ driven.TitleSource = (*Extractor)(nil)
)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the backend.
func (e *Extractor) Name() string {
	return "docx"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor
}

// Extract reads word/document.xml and splits it on page breaks.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening archive: %w", domain.ErrInvalidInput, err)
	}
	defer reader.Close()

	body, err := readPart(&reader.Reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrInvalidInput)
	}
	return parseDocumentXML(body)
}

// Title returns dc:title from docProps/core.xml, if any.
func (e *Extractor) Title(_ context.Context, path, _ string) string {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer reader.Close()

	content, err := readPart(&reader.Reader, "docProps/core.xml")
	if err != nil || content == nil {
		return ""
	}
	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// readPart returns the named archive member, or nil when it is absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return content, nil
	}
	return nil, nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// parseDocumentXML walks the body token by token. Paragraphs end with a
// newline, w:tab becomes a tab and w:br w:type="page" starts a new page.
func parseDocumentXML(content []byte) ([]domain.Page, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		pages  []domain.Page
		page   strings.Builder
		inText bool
	)
	flush := func() {
		pages = append(pages, domain.Page{
			Number: len(pages) + 1,
			Text:   strings.TrimSpace(page.String()),
		})
		page.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parsing document.xml: %w", domain.ErrInvalidInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				page.WriteString("\t")
			case "br":
				if attr(t, "type") == "page" {
					flush()
				} else {
					page.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				page.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				page.Write(t)
			}
		}
	}
	flush()
	return pages, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
