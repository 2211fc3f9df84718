// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/core/domain"
)

// queryLimit caps the query length accepted from the keyboard.
const queryLimit = 512

// SearchInput wraps a bubbles textinput and shows the active search mode.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      domain.SearchMode
	width     int
}

// NewSearchInput creates a new search input component.
func NewSearchInput(s *styles.Styles, mode domain.SearchMode) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask your documents..."
	ti.Focus()
	ti.CharLimit = queryLimit
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		mode:      mode,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the mode badge followed by the input field.
func (s *SearchInput) View() string {
	badge := s.styles.Badge.Render(string(s.mode))
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", input)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Mode returns the mode shown in the badge.
func (s *SearchInput) Mode() domain.SearchMode {
	return s.mode
}

// SetMode changes the mode shown in the badge.
func (s *SearchInput) SetMode(mode domain.SearchMode) {
	s.mode = mode
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// badge, spacing and border
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}
