package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/wardrobe/internal/config"
	"github.com/osse101/wardrobe/internal/event"
	"github.com/osse101/wardrobe/internal/logger"
	"github.com/osse101/wardrobe/internal/metrics"
)

// EventSystem bundles the bus, its resilient publisher and their resources.
type EventSystem struct {
	Bus       event.Bus
	Publisher *event.ResilientPublisher

	kafka      *event.KafkaBus
	deadLetter *event.DeadLetterWriter
}

// InitializeEventSystem creates the event bus (Kafka when brokers are
// configured, in-process otherwise) and wraps it in a ResilientPublisher
// that dead-letters undeliverable events.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	es := &EventSystem{}

	if cfg.KafkaEnabled() {
		es.kafka = event.NewKafkaBus(cfg.KafkaBrokers, cfg.KafkaTopic)
		es.Bus = es.kafka
	} else {
		es.Bus = event.NewMemoryBus()
	}

	if cfg.DeadLetterPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
		}
		dlw, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenDeadLetter, err)
		}
		es.deadLetter = dlw
	}

	es.Publisher = event.NewResilientPublisher(es.Bus, event.ResilientConfig{
		MaxRetries: EventDefaultMaxRetries,
		RetryDelay: EventDefaultRetryDelay,
		DeadLetter: es.deadLetter,
		OnGiveUp:   metrics.RecordGiveUp,
	})

	slog.Info(LogMsgEventSystemInitialized,
		"kafka", cfg.KafkaEnabled(),
		"topic", cfg.KafkaTopic,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return es, nil
}

// RegisterEventHandlers subscribes the metrics collector and the event logger.
func RegisterEventHandlers(bus event.Bus) {
	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range []event.Type{event.ItemGranted, event.ItemEquipped, event.ItemsUnequipped, event.ItemDeleted} {
		bus.Subscribe(t, logEvent)
	}
	slog.Info(LogMsgEventLoggerInitialized)
}

func logEvent(ctx context.Context, evt event.Event) error {
	logger.FromContext(ctx).Debug(LogMsgInventoryEvent, "type", evt.Type, "payload", evt.Payload)
	return nil
}

// Close flushes the Kafka writer and the dead-letter file.
// Shut the publisher down first so no retry writes after Close.
func (es *EventSystem) Close() error {
	var errs []error
	if es.kafka != nil {
		errs = append(errs, es.kafka.Close())
	}
	if es.deadLetter != nil {
		errs = append(errs, es.deadLetter.Close())
	}
	return errors.Join(errs...)
}
