package main

import (
	"fmt"

	"github.com/custodia-labs/membox/internal/adapters/driven/ai"
	"github.com/custodia-labs/membox/internal/adapters/driven/config/file"
	"github.com/custodia-labs/membox/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/membox/internal/adapters/driving/cli"
	"github.com/custodia-labs/membox/internal/core/services"
	"github.com/custodia-labs/membox/internal/extractors"
	"github.com/custodia-labs/membox/internal/logger"
	"github.com/custodia-labs/membox/internal/postprocessors/chunker"
)

// wire opens the config and the store and builds every service.
func wire(opts cli.GlobalOptions) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
		settings.Storage.DatabasePath = ""
	}

	var store *sqlite.Store
	if settings.Storage.DatabasePath != "" {
		store, err = sqlite.Open(settings.Storage.DatabasePath)
	} else {
		store, err = sqlite.NewStore(settings.Storage.DataDir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("Store: %s", store.Path())

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	docs := store.DocumentStore()
	vectors := store.VectorStore()
	chain := extractors.NewDefaultChain(nil)

	return &cli.Services{
		Index: services.NewIndexService(
			docs, chain, chunker.New(), extractors.DetectMIMEType,
			services.WithTitleSource(chain),
		),
		Search:    services.NewSearchService(docs, store.TextSearcher(), vectors, embedder),
		Related:   services.NewRelatedService(docs, vectors, embedder, ai.NewProvider()),
		Documents: services.NewDocumentService(docs),
		Settings:  settingsService,
		Config:    *settings,
	}, store.Close, nil
}
