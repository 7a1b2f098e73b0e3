package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/wardrobe/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter *DeadLetterWriter // optional

	// OnGiveUp is called once an event has exhausted its retries
	OnGiveUp func(event Event, err error)
}

// ResilientPublisher wraps a Bus to retry failed publishes in the background
// and dead-letter events that never get through.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
	wg     sync.WaitGroup
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	return &ResilientPublisher{
		inner:  inner,
		config: config,
	}
}

// Publish tries once synchronously. On failure it schedules background retries
// and returns nil: events are best-effort and never fail the caller.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn("Failed to publish event, initiating async retry",
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event) {
	defer p.wg.Done()
	ctx := context.Background()

	var lastErr error
	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(p.config.RetryDelay * time.Duration(i))

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.Info("Published event after retry", "event_type", event.Type, "attempt", i)
			return
		}
		logger.Warn("Event publish retry failed", "event_type", event.Type, "attempt", i, "error", lastErr)
	}

	if p.config.OnGiveUp != nil {
		p.config.OnGiveUp(event, lastErr)
	}
	if p.config.DeadLetter == nil {
		logger.Error("Dropping event after retries", "event_type", event.Type, "error", lastErr)
		return
	}
	if err := p.config.DeadLetter.Write(event, p.config.MaxRetries+1, lastErr); err != nil {
		logger.Error("Failed to write dead letter", "event_type", event.Type, "error", err)
		return
	}
	logger.Warn("Event written to dead letter queue", "event_type", event.Type)
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// Shutdown waits for in-flight retries or until ctx is done
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
