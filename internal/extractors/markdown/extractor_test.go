package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"heading", "## Setup", "Setup"},
		{"link", "see [the docs](https://example.com)", "see the docs"},
		{"image", "![diagram](img.png) below", "diagram below"},
		{"emphasis", "**bold** and _italic_", "bold and italic"},
		{"inline code", "run `make test`", "run make test"},
		{"fenced code", "```go\nfmt.Println()\n```", "fmt.Println()"},
		{"list", "- one\n- two", "one\ntwo"},
		{"numbered", "1. first\n2. second", "first\nsecond"},
		{"quote", "> quoted", "quoted"},
		{"rule", "above\n\n---\n\nbelow", "above\n\nbelow"},
		{"snake case survives", "use read_file here", "use read_file here"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripMarkdown(tc.input))
		})
	}
}

func TestExtractor_ExtractAndTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	content := "intro line\n\n# Guide Title\n\nSome **text**.\fSecond page"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	e := New()
	pages, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "intro line\n\nGuide Title\n\nSome text.", pages[0].Text)
	assert.Equal(t, 2, pages[1].Number)

	assert.Equal(t, "Guide Title", e.Title(context.Background(), path, "text/markdown"))
	assert.Equal(t, "", e.Title(context.Background(), filepath.Join(t.TempDir(), "missing.md"), ""))
}

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, "markdown", e.Name())
	assert.Equal(t, 50, e.Priority())
	assert.Contains(t, e.SupportedMIMETypes(), "text/markdown")
}
