package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/wardrobe/internal/config"
	"github.com/osse101/wardrobe/internal/database"
	"github.com/osse101/wardrobe/internal/database/memory"
	"github.com/osse101/wardrobe/internal/database/postgres"
	"github.com/osse101/wardrobe/internal/inventory"
	"github.com/osse101/wardrobe/internal/repository"
)

// Storage holds the repositories the inventory processor runs on.
type Storage struct {
	Catalog   repository.Catalog
	Writer    repository.CatalogWriter
	Ownership repository.Ownership
	Pinger    repository.Pinger

	pool *pgxpool.Pool
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InvalidateCatalog drops cached catalog entries after the catalog is
// rewritten underneath the cache.
func (s *Storage) InvalidateCatalog() {
	if cached, ok := s.Catalog.(*inventory.CachedCatalog); ok {
		cached.Purge()
	}
}

// InitializeStorage opens the configured backend. Postgres is migrated to the
// latest schema before use. The catalog is wrapped in an LRU cache when
// enabled.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	var s *Storage

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		s = &Storage{
			Catalog:   store.Catalog(),
			Writer:    store.Catalog(),
			Ownership: store.Ownership(),
			Pinger:    store,
		}
	default:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdle, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}

		version, err := database.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied, "version", version)

		catalog := postgres.NewCatalogRepository(pool)
		s = &Storage{
			Catalog:   catalog,
			Writer:    catalog,
			Ownership: postgres.NewOwnershipRepository(pool),
			Pinger:    catalog,
			pool:      pool,
		}
	}

	if cfg.CatalogCacheEnabled() {
		s.Catalog = inventory.NewCachedCatalog(s.Catalog, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
		slog.Info(LogMsgCatalogCacheActive, "size", cfg.CatalogCacheSize, "ttl", cfg.CatalogCacheTTL)
	}

	slog.Info(LogMsgStorageInitialized, "backend", cfg.Storage)
	return s, nil
}
