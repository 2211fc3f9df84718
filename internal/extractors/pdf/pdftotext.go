package pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// ErrPdftotextNotFound indicates poppler's pdftotext is not on PATH.
var ErrPdftotextNotFound = fmt.Errorf("pdftotext: %w", ErrCommandNotFound)

var _ driven.Extractor = (*Pdftotext)(nil)

// Pdftotext extracts text by running `pdftotext -layout <file> -`.
type Pdftotext struct {
	runner CommandRunner
}

// NewPdftotext creates the command-line extractor.
// A nil runner uses os/exec.
func NewPdftotext(runner CommandRunner) *Pdftotext {
	if runner == nil {
		runner = execRunner{}
	}
	return &Pdftotext{runner: runner}
}

// Name identifies the backend.
func (p *Pdftotext) Name() string {
	return "pdftotext"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (p *Pdftotext) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (p *Pdftotext) Priority() int {
	return 50
}

// Extract splits the command output on form feeds.
func (p *Pdftotext) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	out, err := p.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrCommandNotFound) {
			return nil, fmt.Errorf("%w (%s)", ErrPdftotextNotFound, InstallInstructions())
		}
		return nil, fmt.Errorf("running pdftotext: %w", err)
	}
	return splitFormFeeds(out), nil
}

// InstallInstructions returns how to install pdftotext.
func InstallInstructions() string {
	return "install poppler: brew install poppler (macOS) or apt install poppler-utils (Debian/Ubuntu)"
}
