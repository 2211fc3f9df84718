package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Environment variables that override stored settings.
const (
	EnvDBPath = "MEMBOX_DB_PATH"
	EnvHost   = "MEMBOX_HOST"
	EnvPort   = "MEMBOX_PORT"
)

// Config keys for settings storage.
const (
	keyDataDir       = "storage.data_dir"
	keyHost          = "server.host"
	keyPort          = "server.port"
	keyMinChars      = "indexing.min_chars"
	keyGlob          = "indexing.glob"
	keyTopK          = "search.topk"
	keySnippetTokens = "search.snippet_tokens"
	keyMaxChars      = "search.max_chars"
	keyEmbedModel    = "embedding.model"
	keyEmbedDims     = "embedding.dimensions"
	keyWatchDebounce = "watch.debounce_ms"
)

// setting binds a config key to a field of AppSettings.
// Exactly one of str or num is set.
type setting struct {
	key string
	str func(*domain.AppSettings) *string
	num func(*domain.AppSettings) *int
}

var settingsTable = []setting{
	{key: keyDataDir, str: func(a *domain.AppSettings) *string { return &a.Storage.DataDir }},
	{key: keyHost, str: func(a *domain.AppSettings) *string { return &a.Server.Host }},
	{key: keyPort, num: func(a *domain.AppSettings) *int { return &a.Server.Port }},
	{key: keyMinChars, num: func(a *domain.AppSettings) *int { return &a.Indexing.MinChars }},
	{key: keyGlob, str: func(a *domain.AppSettings) *string { return &a.Indexing.Glob }},
	{key: keyTopK, num: func(a *domain.AppSettings) *int { return &a.Search.TopK }},
	{key: keySnippetTokens, num: func(a *domain.AppSettings) *int { return &a.Search.SnippetTokens }},
	{key: keyMaxChars, num: func(a *domain.AppSettings) *int { return &a.Search.MaxChars }},
	{key: keyEmbedModel, str: func(a *domain.AppSettings) *string { return &a.Embedding.Model }},
	{key: keyEmbedDims, num: func(a *domain.AppSettings) *int { return &a.Embedding.Dimensions }},
	{key: keyWatchDebounce, num: func(a *domain.AppSettings) *int { return &a.Watch.DebounceMillis }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading overrides from
// the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return NewSettingsServiceWithEnv(configStore, os.LookupEnv)
}

// NewSettingsServiceWithEnv creates a settings service with a custom
// environment lookup. A nil lookup disables overrides.
func NewSettingsServiceWithEnv(configStore driven.ConfigStore, lookupEnv func(string) (string, bool)) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// Get retrieves current settings: defaults, then stored values, then environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, st := range settingsTable {
		if _, ok := s.configStore.Get(st.key); !ok {
			continue
		}
		if st.str != nil {
			if v := s.configStore.GetString(st.key); v != "" {
				*st.str(&settings) = v
			}
			continue
		}
		*st.num(&settings) = s.configStore.GetInt(st.key)
	}

	s.applyEnv(&settings)
	return &settings, nil
}

func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.lookupEnv(EnvDBPath); ok && v != "" {
		settings.Storage.DatabasePath = v
	}
	if v, ok := s.lookupEnv(EnvHost); ok && v != "" {
		settings.Server.Host = v
	}
	if v, ok := s.lookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			logger.Warn("Ignoring %s=%q: not a number", EnvPort, v)
			return
		}
		settings.Server.Port = port
	}
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, st := range settingsTable {
		var val any
		if st.str != nil {
			val = *st.str(settings)
		} else {
			val = *st.num(settings)
		}
		if err := s.configStore.Set(st.key, val); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the result and persists it.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	current, err := s.Get()
	if err != nil {
		return err
	}

	var stored any
	if st.str != nil {
		*st.str(current) = value
		stored = value
	} else {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		*st.num(current) = n
		stored = n
	}

	if err := current.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}
