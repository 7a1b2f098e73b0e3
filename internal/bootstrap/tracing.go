package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/wardrobe/internal/config"
	"github.com/osse101/wardrobe/internal/tracing"
)

// InitializeTracing installs trace propagation and, when an OTLP endpoint is
// configured, a batching exporter.
func InitializeTracing(ctx context.Context, cfg *config.Config) (tracing.ShutdownFunc, error) {
	shutdown, err := tracing.Setup(ctx, tracing.Options{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRate:  cfg.OtelSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedInitTracing, err)
	}

	if cfg.TracingEnabled() {
		slog.Info(LogMsgTracingInitialized, "endpoint", cfg.OtelEndpoint, "sample_rate", cfg.OtelSampleRate)
	}
	return shutdown, nil
}
