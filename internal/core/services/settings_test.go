package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/membox/internal/core/domain"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsServiceWithEnv(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, service.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("search.topk", 25)
	_ = store.Set("indexing.glob", "*.md")
	_ = store.Set("indexing.min_chars", 0)
	_ = store.Set("embedding.model", "hashed-small")

	service := NewSettingsServiceWithEnv(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 25, settings.Search.TopK)
	assert.Equal(t, "*.md", settings.Indexing.Glob)
	assert.Equal(t, 0, settings.Indexing.MinChars, "stored zero overrides the default")
	assert.Equal(t, "hashed-small", settings.Embedding.Model)
	assert.Equal(t, domain.DefaultPort, settings.Server.Port)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("server.host", "0.0.0.0")
	_ = store.Set("server.port", 9000)

	service := NewSettingsServiceWithEnv(store, envOf(map[string]string{
		EnvDBPath: "/tmp/membox.db",
		EnvHost:   "localhost",
		EnvPort:   "8080",
	}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/membox.db", settings.Storage.DatabasePath)
	assert.Equal(t, "localhost", settings.Server.Host)
	assert.Equal(t, 8080, settings.Server.Port)
}

func TestSettingsService_Get_IgnoresBadPort(t *testing.T) {
	service := NewSettingsServiceWithEnv(memory.NewConfigStore(), envOf(map[string]string{EnvPort: "http"}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPort, settings.Server.Port)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsServiceWithEnv(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Search.TopK = 42
	settings.Storage.DataDir = "/data"

	require.NoError(t, service.Save(&settings))
	assert.Equal(t, 42, store.GetInt("search.topk"))
	assert.Equal(t, "/data", store.GetString("storage.data_dir"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsServiceWithEnv(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Dimensions = 0

	err := service.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, stored := store.Get("embedding.dimensions")
	assert.False(t, stored)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsServiceWithEnv(store, nil)

	require.NoError(t, service.Set("search.topk", " 15 "))
	require.NoError(t, service.Set("embedding.model", "hashed-tiny"))

	assert.Equal(t, 15, store.GetInt("search.topk"))
	assert.Equal(t, "hashed-tiny", store.GetString("embedding.model"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 15, settings.Search.TopK)
}

func TestSettingsService_Set_Errors(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsServiceWithEnv(store, nil)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "search.mode", value: "hybrid"},
		{name: "not a number", key: "server.port", value: "eighty"},
		{name: "out of range", key: "search.topk", value: "1000"},
		{name: "empty glob", key: "indexing.glob", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Set(tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, stored := store.Get(tt.key)
			assert.False(t, stored)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsServiceWithEnv(memory.NewConfigStore(), nil)

	keys := service.Keys()
	assert.Contains(t, keys, "storage.data_dir")
	assert.Contains(t, keys, "server.port")
	assert.Contains(t, keys, "search.snippet_tokens")
	assert.Contains(t, keys, "watch.debounce_ms")
	assert.Len(t, keys, 11)
}
