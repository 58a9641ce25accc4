// backend/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/gewnthar/vacancies/backend/config"
	"github.com/gewnthar/vacancies/backend/database"
	"github.com/gewnthar/vacancies/backend/scraper"
	"github.com/gewnthar/vacancies/backend/services"
)

func main() {
	log.Println("Starting social housing vacancies pipeline...")

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Landing page: %s, output dir: %s", cfg.Catalog.LandingPage, cfg.Output.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cache, err := scraper.OpenSQLiteCache(cfg.HTTPCache.Path)
	if err != nil {
		log.Fatalf("Error opening HTTP cache: %v", err)
	}
	defer cache.Close()

	pipeline := &services.Pipeline{
		Config: cfg,
		Client: scraper.NewClient(cache, scraper.ClientOptions{
			Timeout:   cfg.HTTPCache.RequestTimeout,
			UserAgent: cfg.HTTPCache.UserAgent,
			CacheTTL:  cfg.HTTPCache.ExpiresAfter,
		}),
	}

	var store *database.Store
	if cfg.Database.Enabled {
		store, err = database.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Error initializing database: %v", err)
		}
		defer store.Close()
		pipeline.Store = store
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline run failed: %v", err)
	}
	log.Printf("Run %s complete: %d observations, %d duplicates dropped", result.RunID, result.ObservationRows, result.DuplicatesDropped)
	for _, f := range result.Files {
		log.Printf("  wrote %s", f)
	}

	if store != nil {
		logRecordedFetches(ctx, store, result.RunID)
	}
}

func logRecordedFetches(ctx context.Context, store *database.Store, runID string) {
	versions, err := store.GetDataSourceVersions(ctx, runID)
	if err != nil {
		log.Printf("WARN could not read back provenance for run %s: %v", runID, err)
		return
	}
	for _, v := range versions {
		log.Printf("  recorded %s: %d rows over %d page(s), sha256 %s, cached=%t", v.SourceName, v.RowCount, v.Pages, v.DataHash, v.FromCache)
	}
}
