// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/core/domain"
)

// linesPerHit is the rendered height of one hit: title, location, snippet.
const linesPerHit = 3

// ResultList displays search hits in a navigable list.
type ResultList struct {
	hits     []domain.SearchHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible window of hits around the selection.
func (r *ResultList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.hits)*linesPerHit+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.hits))), "")

	visible := (r.height - 2) / linesPerHit
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.hits) {
		end = len(r.hits)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderHit(index int, hit *domain.SearchHit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := hit.Title
	if title == "" {
		title = filepath.Base(hit.Locator)
	}
	maxTitle := r.width - 14
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = truncate(title, maxTitle)

	score := fmt.Sprintf("%.4f", hit.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
			r.styles.Muted.Render(score)
	}

	location := r.styles.Muted.Render("    " + truncate(hit.Locator, r.width-16) + "  " + Pages(hit.PageStart, hit.PageEnd))

	var snippet string
	if hit.Snippet != "" {
		snippet = "    " + r.styles.Highlight(truncate(flatten(hit.Snippet), r.width-6))
	} else {
		snippet = r.styles.Muted.Render("    " + truncate(flatten(hit.TextPreview), r.width-6))
	}

	return titleLine + "\n" + location + "\n" + snippet
}

// Pages formats a page span as "p.4" or "pp.2-5".
func Pages(start, end int) string {
	if end <= start {
		return fmt.Sprintf("p.%d", start)
	}
	return fmt.Sprintf("pp.%d-%d", start, end)
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetHits replaces the list and resets the selection.
func (r *ResultList) SetHits(hits []domain.SearchHit) {
	r.hits = hits
	r.selected = 0
}

// Hits returns the current hits.
func (r *ResultList) Hits() []domain.SearchHit {
	return r.hits
}

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (r *ResultList) SelectedHit() *domain.SearchHit {
	if r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of hits.
func (r *ResultList) Count() int {
	return len(r.hits)
}
