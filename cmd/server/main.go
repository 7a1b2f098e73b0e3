package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/wardrobe/internal/bootstrap"
	"github.com/osse101/wardrobe/internal/config"
	"github.com/osse101/wardrobe/internal/cosmetic"
	"github.com/osse101/wardrobe/internal/handler"
	"github.com/osse101/wardrobe/internal/inventory"
	"github.com/osse101/wardrobe/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("wardrobe: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bootstrap.SetupLogger(cfg, os.Stdout)
	handler.Version = cfg.Version

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := bootstrap.InitializeTracing(ctx, cfg)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.CatalogPath != "" {
		file, err := bootstrap.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			storage.Close()
			return err
		}
		if _, err := bootstrap.SyncCatalog(ctx, storage.Writer, file); err != nil {
			storage.Close()
			return err
		}
		storage.InvalidateCatalog()
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}
	bootstrap.RegisterEventHandlers(events.Publisher)

	processor := inventory.NewProcessor[cosmetic.Type, cosmetic.Price](
		storage.Catalog,
		storage.Ownership,
		cosmetic.Types,
		cosmetic.Prices,
		events.Publisher,
	)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RequestTimeout: cfg.RequestTimeout,
	}, storage.Pinger, processor)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:  srv,
		Events:  events,
		Storage: storage,
		Tracing: shutdownTracing,
	})
	return serveErr
}
