package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// ErrCommandNotFound indicates an external extractor is not on PATH.
var ErrCommandNotFound = errors.New("command not found")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// splitFormFeeds turns form-feed separated text into pages. Blank pages
// are skipped but the remaining pages keep their original numbers.
func splitFormFeeds(out []byte) []domain.Page {
	var pages []domain.Page
	for i, chunk := range strings.Split(string(out), "\f") {
		if text := strings.TrimSpace(chunk); text != "" {
			pages = append(pages, domain.Page{Number: i + 1, Text: text})
		}
	}
	return pages
}
