package doccontent

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// MockDocumentService is a mock implementation of driving.DocumentService.
// Only GetContent is used by the view.
type MockDocumentService struct {
	driving.DocumentService
	mock.Mock
}

func (m *MockDocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func newDocs(content string, err error) *MockDocumentService {
	m := &MockDocumentService{}
	m.On("GetContent", mock.Anything, mock.AnythingOfType("string")).Return(content, err)
	return m
}

func load(t *testing.T, v *View, hit domain.SearchHit) {
	t.Helper()
	cmd := v.SetHit(hit)
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	v.Update(cmd())
}

func TestView_LoadsAndScrollsToMatch(t *testing.T) {
	content := strings.Repeat("intro\n", 40) + "the Transformer uses attention\n" + strings.Repeat("outro\n", 40)
	docs := newDocs(content, nil)
	v := NewView(nil, docs)
	v.SetDimensions(80, 16)

	load(t, v, domain.SearchHit{DocumentID: "doc-1", Title: "Paper", Snippet: "uses [attention]"})

	docs.AssertCalled(t, "GetContent", mock.Anything, "doc-1")
	docs.AssertNumberOfCalls(t, "GetContent", 1)
	assert.False(t, v.Loading())
	assert.Equal(t, 40, v.ScrollOffset())
	view := v.View()
	assert.Contains(t, view, "the Transformer uses attention")
	assert.NotContains(t, view, "intro")
}

func TestView_ScrollClampsAtEnd(t *testing.T) {
	v := NewView(nil, newDocs(strings.Repeat("line\n", 5)+"last match", nil))
	v.SetDimensions(80, 10)

	load(t, v, domain.SearchHit{DocumentID: "doc-1", Snippet: "[match]"})

	assert.Equal(t, 2, v.ScrollOffset())
}

func TestView_Keys(t *testing.T) {
	v := NewView(nil, newDocs(strings.Repeat("line\n", 50), nil))
	v.SetDimensions(80, 16)
	load(t, v, domain.SearchHit{DocumentID: "doc-1"})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, v.ScrollOffset())
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, v.maxScrollOffset(), v.ScrollOffset())
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, v.ScrollOffset())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())
}

func TestView_Error(t *testing.T) {
	v := NewView(nil, newDocs("", errors.New("gone")))

	load(t, v, domain.SearchHit{DocumentID: "doc-1"})

	assert.EqualError(t, v.Err(), "gone")
	assert.Contains(t, v.View(), "Error: gone")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	load(t, v, domain.SearchHit{DocumentID: "doc-1"})

	assert.ErrorIs(t, v.Err(), ErrNoDocumentService)
}

func TestView_IgnoresStaleContent(t *testing.T) {
	v := NewView(nil, newDocs("fresh", nil))
	load(t, v, domain.SearchHit{DocumentID: "doc-2"})

	v.Update(messages.DocumentContentLoaded{DocumentID: "doc-1", Content: "stale"})

	assert.Equal(t, "fresh", v.Content())
}

func TestWrapContent(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(24, 10)
	v.content = strings.Repeat("x", 45) + "\n\nshort"

	v.wrapContent()

	assert.Equal(t, []string{strings.Repeat("x", 20), strings.Repeat("x", 20), "xxxxx", "", "short"}, v.lines)
}
