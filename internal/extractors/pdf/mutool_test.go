package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/core/domain"
)

func TestMutool_Metadata(t *testing.T) {
	m := NewMutool(nil)
	assert.Equal(t, "mutool", m.Name())
	assert.Equal(t, 55, m.Priority())
	assert.Equal(t, []string{"application/pdf"}, m.SupportedMIMETypes())
}

func TestMutool_SplitsPages(t *testing.T) {
	runner := &mockRunner{output: []byte("Abstract\n\fIntroduction\n\f\n\f")}
	m := NewMutool(runner)

	pages, err := m.Extract(context.Background(), "/docs/a.pdf")
	require.NoError(t, err)

	assert.Equal(t, "mutool", runner.name)
	assert.Equal(t, []string{"draw", "-q", "-F", "txt", "-o", "-", "/docs/a.pdf"}, runner.args)
	assert.Equal(t, []domain.Page{
		{Number: 1, Text: "Abstract"},
		{Number: 2, Text: "Introduction"},
	}, pages)
}

func TestMutool_CommandError(t *testing.T) {
	_, err := NewMutool(&mockRunner{err: errors.New("exit status 1")}).Extract(context.Background(), "/a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running mutool")
}

func TestMutool_NotInstalled(t *testing.T) {
	runner := &mockRunner{err: ErrCommandNotFound}

	_, err := NewMutool(runner).Extract(context.Background(), "/a.pdf")

	assert.ErrorIs(t, err, ErrMutoolNotFound)
	assert.ErrorIs(t, err, ErrCommandNotFound)
	assert.Contains(t, err.Error(), "mupdf")
}
