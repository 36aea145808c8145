package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.2.2:8000/api", cfg.ItemAPIURL)
	assert.Equal(t, "http://10.0.2.2:8000/storage", cfg.AssetBaseURL)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.CatalogAPIURL)
	assert.Equal(t, 20, cfg.PageLimit)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CRIMSON_ITEM_API_URL", "http://localhost:9000/api")
	t.Setenv("CRIMSON_PAGE_LIMIT", "50")
	t.Setenv("CRIMSON_DB_PATH", "/tmp/custom.db")
	t.Setenv("CRIMSON_HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.ItemAPIURL)
	assert.Equal(t, 50, cfg.PageLimit)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestBuilderOverrides(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.WithDBPath("/tmp/x.db").
		WithItemAPIURL("http://api.example/api").
		WithCatalogAPIURL("http://catalog.example").
		WithAssetBaseURL("http://assets.example")

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "http://api.example/api", cfg.ItemAPIURL)
	assert.Equal(t, "http://catalog.example", cfg.CatalogAPIURL)
	assert.Equal(t, "http://assets.example", cfg.AssetBaseURL)
}
