package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/adapters/driving/cli"
	"github.com/custodia-labs/membox/internal/core/domain"
)

func TestWire_EndToEnd(t *testing.T) {
	ctx := context.Background()
	t.Setenv("MEMBOX_DB_PATH", "")
	dataDir := t.TempDir()
	docsDir := t.TempDir()

	svc, release, err := wire(cli.GlobalOptions{DataDir: dataDir, ConfigDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, release()) })

	assert.Equal(t, dataDir, svc.Config.Storage.DataDir)
	assert.FileExists(t, filepath.Join(dataDir, "membox.db"))

	paper := strings.Repeat("Scaled dot-product attention weighs every value by query key similarity. ", 5)
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "attention.txt"), []byte(paper), 0o600))
	notes := strings.Repeat("Gradient boosting fits shallow trees to residuals. ", 5)
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "boosting.txt"), []byte(notes), 0o600))

	batch, err := svc.Index.IndexPath(ctx, docsDir, domain.IndexOptions{Glob: "*.txt", MinChars: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Indexed)
	assert.Empty(t, batch.Errors)

	again, err := svc.Index.IndexPath(ctx, docsDir, domain.IndexOptions{Glob: "*.txt", MinChars: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, again.Unchanged, "unchanged files are skipped")

	resp, err := svc.Search.Search(ctx, "attention", domain.SearchOptions{Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Hits)
	assert.Equal(t, filepath.Join(docsDir, "attention.txt"), resp.Hits[0].Locator)

	related, err := svc.Related.Related(ctx, domain.RelatedQuery{Text: "trees and residuals", Limit: 1, Bootstrap: true})
	require.NoError(t, err)
	require.Len(t, related.Hits, 1)
	assert.Equal(t, filepath.Join(docsDir, "boosting.txt"), related.Hits[0].Locator)

	docs, err := svc.Documents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestWire_DatabasePathFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom", "index.db")
	t.Setenv("MEMBOX_DB_PATH", dbPath)

	svc, release, err := wire(cli.GlobalOptions{ConfigDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, release()) })

	assert.Equal(t, dbPath, svc.Config.Storage.DatabasePath)
	assert.FileExists(t, dbPath)
}

func TestWire_DataDirFlagBeatsEnv(t *testing.T) {
	t.Setenv("MEMBOX_DB_PATH", filepath.Join(t.TempDir(), "env.db"))
	dataDir := t.TempDir()

	svc, release, err := wire(cli.GlobalOptions{ConfigDir: t.TempDir(), DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, release()) })

	assert.Empty(t, svc.Config.Storage.DatabasePath)
	assert.FileExists(t, filepath.Join(dataDir, "membox.db"))
}

func TestWire_UnknownEmbeddingModel(t *testing.T) {
	configDir := t.TempDir()
	config := "[embedding]\nmodel = \"gpt-embed\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))

	t.Setenv("MEMBOX_DB_PATH", "")

	_, _, err := wire(cli.GlobalOptions{ConfigDir: configDir, DataDir: t.TempDir()})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
