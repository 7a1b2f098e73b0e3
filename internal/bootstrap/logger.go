package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/wardrobe/internal/config"
	"github.com/osse101/wardrobe/internal/logger"
)

// SetupLogger installs the process-wide structured logger for cfg and
// writes the startup banner to it.
func SetupLogger(cfg *config.Config, w io.Writer) {
	logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.Environment != "production",
	), w)

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"storage", cfg.Storage)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"kafka_brokers", cfg.KafkaBrokers)
}
