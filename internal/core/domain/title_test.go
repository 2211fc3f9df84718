package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		pages    []Page
		locator  string
		expected string
	}{
		{
			name:     "first line of first page",
			pages:    []Page{{Number: 1, Text: "Deep Learning\n\nIntro text"}},
			locator:  "/doc.pdf",
			expected: "Deep Learning",
		},
		{
			name:     "skips blank pages and lines",
			pages:    []Page{{Number: 1, Text: "  \n"}, {Number: 2, Text: "\n\n  Actual   Title \nbody"}},
			locator:  "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "skips very long first line",
			pages:    []Page{{Number: 1, Text: strings.Repeat("x", 250) + "\nShort Title\n"}},
			locator:  "/doc.pdf",
			expected: "Short Title",
		},
		{
			name:     "falls back to file name",
			pages:    nil,
			locator:  "/path/to/my_document-v2.pdf",
			expected: "my document v2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveTitle(tc.pages, tc.locator))
		})
	}
}

func TestSplitPages(t *testing.T) {
	pages := SplitPages("one\ftwo\f\fthree\f")
	assert.Equal(t, []Page{
		{Number: 1, Text: "one"},
		{Number: 2, Text: "two"},
		{Number: 3, Text: ""},
		{Number: 4, Text: "three"},
	}, pages)

	assert.Equal(t, []Page{{Number: 1, Text: "plain"}}, SplitPages("plain"))
	assert.Equal(t, []Page{{Number: 1, Text: ""}}, SplitPages(""))
}
