// Package docdetails provides the document details view component for the TUI.
package docdetails

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

// View is the document details view.
type View struct {
	styles *styles.Styles

	details *driving.DocumentDetails
	width   int
	err     error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80}
}

// SetDetails sets the document details to display.
func (v *View) SetDetails(details *driving.DocumentDetails) {
	v.details = details
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.details = nil
	v.err = err
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSearch}
			}
		}
	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

// Lines returns the label/value rows for the current document.
func (v *View) Lines() []string {
	if v.details == nil {
		return nil
	}
	d := v.details

	lines := []string{
		field("ID", d.ID),
		field("Title", d.Title),
		field("Path", d.Locator),
		field("Type", d.MIMEType),
		field("Fingerprint", d.Fingerprint),
		field("Chunks", fmt.Sprintf("%d", d.ChunkCount)),
		field("Pages", fmt.Sprintf("%d", d.PageCount)),
	}
	if !d.CreatedAt.IsZero() {
		lines = append(lines, field("Created", d.CreatedAt.Format(timeLayout)))
	}
	if !d.UpdatedAt.IsZero() {
		lines = append(lines, field("Updated", d.UpdatedAt.Format(timeLayout)))
	}
	return lines
}

func field(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(0, min(v.width-4, 60))))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.details == nil:
		b.WriteString(v.styles.Muted.Render("No document details available"))
		b.WriteString("\n")
	default:
		for _, line := range v.Lines() {
			label, value, _ := strings.Cut(line, ":")
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
}

// Details returns the current document details.
func (v *View) Details() *driving.DocumentDetails {
	return v.details
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
