package pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// ErrMutoolNotFound indicates MuPDF's mutool is not on PATH.
var ErrMutoolNotFound = fmt.Errorf("mutool: %w", ErrCommandNotFound)

var _ driven.Extractor = (*Mutool)(nil)

// Mutool extracts text with `mutool draw -F txt`, which ends every page
// with a form feed.
type Mutool struct {
	runner CommandRunner
}

// NewMutool creates the MuPDF extractor. A nil runner uses os/exec.
func NewMutool(runner CommandRunner) *Mutool {
	if runner == nil {
		runner = execRunner{}
	}
	return &Mutool{runner: runner}
}

// Name identifies the backend.
func (m *Mutool) Name() string {
	return "mutool"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (m *Mutool) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (m *Mutool) Priority() int {
	return 55
}

func (m *Mutool) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	out, err := m.runner.Run(ctx, "mutool", "draw", "-q", "-F", "txt", "-o", "-", path)
	if err != nil {
		if errors.Is(err, ErrCommandNotFound) {
			return nil, fmt.Errorf("%w (install mupdf-tools)", ErrMutoolNotFound)
		}
		return nil, fmt.Errorf("running mutool: %w", err)
	}
	return splitFormFeeds(out), nil
}
