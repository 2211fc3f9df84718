// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	opts          domain.SearchOptions
	ctx           context.Context

	// lastQuery is the query behind the current hits.
	lastQuery string

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating hits
}

// NewView creates a new search view. Hybrid mode is shown as lexical since
// tab only alternates between lexical and semantic.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	opts domain.SearchOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if opts.Mode != domain.SearchModeSemantic {
		opts.Mode = domain.SearchModeLexical
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s, opts.Mode),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		opts:          opts,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.ToggleMode) {
		return v, v.toggleMode()
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		if hit := v.list.SelectedHit(); hit != nil {
			h := *hit
			return v, func() tea.Msg { return messages.HitOpened{Hit: h} }
		}
	case keymap.Matches(msg.String(), v.keymap.Details):
		if hit := v.list.SelectedHit(); hit != nil {
			id := hit.DocumentID
			return v, func() tea.Msg { return messages.DetailsRequested{DocumentID: id} }
		}
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		return v, v.submit(query)

	case tea.KeyEsc:
		// Back to the previous hits, if any.
		if v.list.Count() > 0 {
			v.input.SetValue(v.lastQuery)
			v.blurInput()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// toggleMode alternates lexical and semantic. With a query on screen the
// search is rerun in the new mode.
func (v *View) toggleMode() tea.Cmd {
	if v.opts.Mode == domain.SearchModeSemantic {
		v.opts.Mode = domain.SearchModeLexical
	} else {
		v.opts.Mode = domain.SearchModeSemantic
	}
	v.input.SetMode(v.opts.Mode)

	if !v.focusInput && v.lastQuery != "" {
		return v.submit(v.lastQuery)
	}
	return nil
}

func (v *View) submit(query string) tea.Cmd {
	v.lastQuery = query
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")
	v.blurInput()
	return v.performSearch(query)
}

func (v *View) blurInput() {
	v.focusInput = false
	v.input.Blur()
}

// performSearch runs the query with a copy of the current options.
func (v *View) performSearch(query string) tea.Cmd {
	opts := v.opts
	ctx := v.ctx
	svc := v.searchService
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		resp, err := svc.Search(ctx, query, opts)
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.list.SetHits(nil)
		v.setError(msg.Err)
		return
	}

	var hits []domain.SearchHit
	if msg.Response != nil {
		hits = msg.Response.Hits
	}

	v.err = nil
	v.list.SetHits(hits)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(hits))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 9)
	sections = append(sections, v.styles.Title.Render("membox"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Mode returns the active search mode.
func (v *View) Mode() domain.SearchMode {
	return v.opts.Mode
}

// Hits returns the current hits.
func (v *View) Hits() []domain.SearchHit {
	return v.list.Hits()
}

// SelectedIndex returns the index of the selected hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
