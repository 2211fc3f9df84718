// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// View shows the stored text of the document behind a hit, scrolled to the
// first occurrence of the hit's leading matched term.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	hit          *domain.SearchHit
	content      string
	lines        []string
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used to load content.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetHit resets the view for hit and returns the command loading its document.
func (v *View) SetHit(hit domain.SearchHit) tea.Cmd {
	v.hit = &hit
	v.content = ""
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	svc := v.documentService
	ctx := v.ctx
	id := hit.DocumentID
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentContentLoaded{DocumentID: id, Err: ErrNoDocumentService}
		}
		content, err := svc.GetContent(ctx, id)
		return messages.DocumentContentLoaded{DocumentID: id, Content: content, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		if v.hit == nil || msg.DocumentID != v.hit.DocumentID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.content = msg.Content
		v.wrapContent()
		v.scrollToMatch()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// wrapContent hard-wraps the content to the view width.
func (v *View) wrapContent() {
	if v.content == "" {
		v.lines = nil
		return
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}

	raw := strings.Split(v.content, "\n")
	v.lines = make([]string, 0, len(raw))
	for _, line := range raw {
		r := []rune(line)
		for len(r) > width {
			v.lines = append(v.lines, string(r[:width]))
			r = r[width:]
		}
		v.lines = append(v.lines, string(r))
	}
}

// scrollToMatch moves to the first line holding the hit's first
// bracketed snippet term.
func (v *View) scrollToMatch() {
	term := firstTerm(v.hit.Snippet)
	if term == "" {
		return
	}
	for i, line := range v.lines {
		if strings.Contains(strings.ToLower(line), term) {
			v.scrollOffset = i
			if v.scrollOffset > v.maxScrollOffset() {
				v.scrollOffset = v.maxScrollOffset()
			}
			return
		}
	}
}

func firstTerm(snippet string) string {
	open := strings.IndexByte(snippet, '[')
	if open < 0 {
		return ""
	}
	end := strings.IndexByte(snippet[open:], ']')
	if end <= 1 {
		return ""
	}
	return strings.ToLower(snippet[open+1 : open+end])
}

func (v *View) visibleLines() int {
	// title, separator, indicator, help
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Content"
	if v.hit != nil {
		title = v.hit.Title
		if title == "" {
			title = v.hit.Locator
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.hit != nil {
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(list.Pages(v.hit.PageStart, v.hit.PageEnd)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(0, min(v.width-4, 60))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
		b.WriteString("\n\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
	default:
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			percentage := 0
			if v.maxScrollOffset() > 0 {
				percentage = v.scrollOffset * 100 / v.maxScrollOffset()
			}
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
				percentage,
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.lines)),
				len(v.lines))))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
}

// Content returns the document content.
func (v *View) Content() string {
	return v.content
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Loading reports whether content is still being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
