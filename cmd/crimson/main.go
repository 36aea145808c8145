package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/pedrolucas/crimson/internal/catalog"
	"github.com/pedrolucas/crimson/internal/config"
	"github.com/pedrolucas/crimson/internal/gacha"
	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/repository"
	"github.com/pedrolucas/crimson/internal/session"
	"github.com/pedrolucas/crimson/internal/ui"
)

func main() {
	itemAPI := flag.String("api", "", "Item management API base URL (overrides CRIMSON_ITEM_API_URL)")
	catalogAPI := flag.String("catalog", "", "Catalog API base URL (overrides CRIMSON_CATALOG_API_URL)")
	assetBase := flag.String("assets", "", "Asset base URL for item images (overrides CRIMSON_ASSET_BASE_URL)")
	dbPath := flag.String("db", "", "Path to database file (default: ~/.crimson/crimson.db)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *itemAPI != "" {
		cfg.WithItemAPIURL(*itemAPI)
	}
	if *catalogAPI != "" {
		cfg.WithCatalogAPIURL(*catalogAPI)
	}
	if *assetBase != "" {
		cfg.WithAssetBaseURL(*assetBase)
	}
	if *dbPath != "" {
		cfg.WithDBPath(*dbPath)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	repo, err := repository.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repo.Close()

	itemHTTP := httpx.New(cfg.ItemAPIURL,
		httpx.WithTimeout(cfg.HTTPTimeout),
		httpx.WithTokenSource(repo.Session()))
	catalogHTTP := httpx.New(cfg.CatalogAPIURL,
		httpx.WithTimeout(cfg.HTTPTimeout))

	itemClient := gacha.NewClient(itemHTTP)
	catalogClient := catalog.NewClient(catalogHTTP, cfg.PageLimit)

	sess := session.NewManager(itemClient, repo.Session())
	items := gacha.NewController(itemClient, repo.Session())
	listing := catalog.NewController(catalogClient)

	app := ui.NewApp(cfg, sess, listing, catalogClient, items)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
