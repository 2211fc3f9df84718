package domain

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxTitleRunes bounds a title taken from document text.
const MaxTitleRunes = 120

// DeriveTitle picks a display title for a document: the first non-empty
// line of the first non-blank page when it is short enough, otherwise
// the humanised file name.
func DeriveTitle(pages []Page, locator string) string {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		for _, line := range strings.Split(p.Text, "\n") {
			line = strings.Join(strings.Fields(line), " ")
			if line == "" {
				continue
			}
			if utf8.RuneCountInString(line) <= MaxTitleRunes {
				return line
			}
		}
		break
	}
	return TitleFromLocator(locator)
}

// TitleFromLocator turns "/docs/my_paper-v2.pdf" into "my paper v2".
func TitleFromLocator(locator string) string {
	name := filepath.Base(locator)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// SplitPages splits text on form feeds into pages numbered from 1.
// Text without form feeds is a single page.
func SplitPages(text string) []Page {
	parts := strings.Split(text, "\f")
	// A trailing form feed does not start a page.
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]Page, len(parts))
	for i, part := range parts {
		pages[i] = Page{Number: i + 1, Text: part}
	}
	return pages
}
