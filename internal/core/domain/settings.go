package domain

import (
	"errors"
	"fmt"
)

// Default service and embedding parameters.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8765
	DefaultEmbedModel    = "hashed-bow"
	DefaultEmbedDim      = 768
	DefaultWatchDebounce = 500
)

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// DataDir is the directory holding the database. Empty uses ~/.membox/data.
	DataDir string

	// DatabasePath overrides the database file location entirely.
	DatabasePath string
}

// ServerSettings holds HTTP listener configuration.
type ServerSettings struct {
	Host string
	Port int
}

// Addr returns host:port for listeners.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IndexingSettings holds ingestion defaults.
type IndexingSettings struct {
	MinChars int
	Glob     string
}

// SearchSettings holds query defaults.
type SearchSettings struct {
	TopK          int
	SnippetTokens int
	MaxChars      int
}

// EmbeddingSettings selects the embedding space.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// Dimensions is the vector width.
	Dimensions int
}

// WatchSettings holds file watcher configuration.
type WatchSettings struct {
	// DebounceMillis coalesces bursts of events on the same file.
	DebounceMillis int
}

// AppSettings is the complete configuration value passed into constructors.
type AppSettings struct {
	Storage   StorageSettings
	Server    ServerSettings
	Indexing  IndexingSettings
	Search    SearchSettings
	Embedding EmbeddingSettings
	Watch     WatchSettings
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Indexing: IndexingSettings{
			MinChars: DefaultMinChars,
			Glob:     DefaultGlob,
		},
		Search: SearchSettings{
			TopK:          DefaultTopK,
			SnippetTokens: DefaultSnippetTokens,
			MaxChars:      DefaultMaxChars,
		},
		Embedding: EmbeddingSettings{
			Model:      DefaultEmbedModel,
			Dimensions: DefaultEmbedDim,
		},
		Watch: WatchSettings{
			DebounceMillis: DefaultWatchDebounce,
		},
	}
}

// Validate checks that settings are usable.
func (s AppSettings) Validate() error {
	var errs []error
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", s.Server.Port))
	}
	if s.Embedding.Dimensions <= 0 {
		errs = append(errs, fmt.Errorf("embedding dimensions must be positive, got %d", s.Embedding.Dimensions))
	}
	if s.Embedding.Model == "" {
		errs = append(errs, errors.New("embedding model must be set"))
	}
	if s.Search.TopK <= 0 || s.Search.TopK > MaxTopK {
		errs = append(errs, fmt.Errorf("search topk must be within 1..%d, got %d", MaxTopK, s.Search.TopK))
	}
	if s.Indexing.Glob == "" {
		errs = append(errs, errors.New("indexing glob must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
