package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/wardrobe/internal/server"
	"github.com/osse101/wardrobe/internal/tracing"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server  *server.Server
	Events  *EventSystem
	Storage *Storage
	Tracing tracing.ShutdownFunc
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Event publisher (finish pending retries)
// 3. Event transport and dead-letter file
// 4. Storage
// 5. Trace exporter (flush spans recorded above)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Events != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.Events.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
		if err := components.Events.Close(); err != nil {
			slog.Error(LogMsgEventSystemCloseFailed, "error", err)
		}
	}

	if components.Storage != nil {
		components.Storage.Close()
	}

	if components.Tracing != nil {
		if err := components.Tracing(ctx); err != nil {
			slog.Error(LogMsgTracingFlushFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
