package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/osse101/wardrobe/internal/bootstrap"
	"github.com/osse101/wardrobe/internal/config"
)

func main() {
	path := flag.String("catalog", "configs/catalog.json", "path to the catalog JSON file")
	check := flag.Bool("check", false, "validate the catalog file without writing it")
	flag.Parse()

	file, err := bootstrap.LoadCatalog(*path)
	if err != nil {
		log.Fatalf("Catalog invalid: %v", err)
	}
	if *check {
		log.Printf("Catalog %s is valid (%d items)", *path, len(file.Items))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage != config.StoragePostgres {
		log.Fatalf("Seeding requires STORAGE=%s (got %q)", config.StoragePostgres, cfg.Storage)
	}
	bootstrap.SetupLogger(cfg, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Caching is pointless for a one-shot writer
	cfg.CatalogCacheSize = 0
	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	n, err := bootstrap.SyncCatalog(ctx, storage.Writer, file)
	if err != nil {
		storage.Close()
		log.Fatalf("Seed failed after %d items: %v", n, err)
	}
	log.Printf("Seeded %d catalog items from %s", n, *path)
}
