package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	// ItemAPIURL is the base URL of the authenticated item management API,
	// including the /api prefix.
	ItemAPIURL string `env:"CRIMSON_ITEM_API_URL" envDefault:"http://10.0.2.2:8000/api"`

	// AssetBaseURL is where relative item image paths are served from.
	AssetBaseURL string `env:"CRIMSON_ASSET_BASE_URL" envDefault:"http://10.0.2.2:8000/storage"`

	// CatalogAPIURL is the base URL of the public creature catalog API.
	CatalogAPIURL string `env:"CRIMSON_CATALOG_API_URL" envDefault:"https://pokeapi.co/api/v2"`

	// PageLimit is the catalog page size.
	PageLimit int `env:"CRIMSON_PAGE_LIMIT" envDefault:"20"`

	// DBPath is the local database file holding the session token.
	DBPath string `env:"CRIMSON_DB_PATH"`

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `env:"CRIMSON_HTTP_TIMEOUT" envDefault:"15s"`
}

// Load creates a configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = getDefaultDBPath()
	}
	return cfg, nil
}

// WithDBPath sets a custom database path
func (c *Config) WithDBPath(path string) *Config {
	c.DBPath = path
	return c
}

// WithItemAPIURL sets a custom item API base URL
func (c *Config) WithItemAPIURL(url string) *Config {
	c.ItemAPIURL = url
	return c
}

// WithCatalogAPIURL sets a custom catalog API base URL
func (c *Config) WithCatalogAPIURL(url string) *Config {
	c.CatalogAPIURL = url
	return c
}

// WithAssetBaseURL sets a custom asset base URL
func (c *Config) WithAssetBaseURL(url string) *Config {
	c.AssetBaseURL = url
	return c
}

func getDefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "crimson.db"
	}
	return filepath.Join(homeDir, ".crimson", "crimson.db")
}
