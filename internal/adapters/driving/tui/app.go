package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/membox/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/membox/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	searchView     *search.View
	docContentView *doccontent.View
	docDetailsView *docdetails.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI. opts seeds every query; tab flips its mode.
func NewApp(ports *Ports, opts domain.SearchOptions) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		searchView:     search.NewView(s, nil, ports.Search, opts),
		docContentView: doccontent.NewView(s, ports.Document),
		docDetailsView: docdetails.NewView(s),
		currentView:    messages.ViewSearch,
	}, nil
}

// WithContext sets the context used for every service call.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("membox"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.HitOpened:
		if a.ports.Document == nil {
			a.searchView, cmd = a.searchView.Update(messages.ErrorOccurred{Err: ErrMissingDocumentService})
			return a, cmd
		}
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetHit(msg.Hit)

	case messages.DetailsRequested:
		return a, a.loadDetails(msg.DocumentID)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			a.searchView, cmd = a.searchView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.docDetailsView.SetDetails(msg.Details)
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blink and other component ticks.
	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	}
	return cmd
}

func (a *App) loadDetails(documentID string) tea.Cmd {
	svc := a.ports.Document
	ctx := a.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDetailsLoaded{DocumentID: documentID, Err: ErrMissingDocumentService}
		}
		details, err := svc.GetDetails(ctx, documentID)
		return messages.DocumentDetailsLoaded{DocumentID: documentID, Details: details, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	default:
		return a.searchView.View()
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
}
