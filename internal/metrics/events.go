package metrics

import (
	"context"

	"github.com/osse101/wardrobe/internal/event"
	"github.com/osse101/wardrobe/internal/logger"
)

// EventMetricsCollector subscribes to ownership events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every ownership event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range []event.Type{
		event.ItemGranted,
		event.ItemEquipped,
		event.ItemsUnequipped,
		event.ItemDeleted,
	} {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent counts the event and, for equips, the item type equipped
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	payload, ok := evt.Payload.(event.OwnershipPayloadV1)
	if !ok {
		logger.FromContext(ctx).Debug(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}

	if evt.Type == event.ItemEquipped && payload.ItemType != "" {
		ItemsEquipped.WithLabelValues(payload.ItemType).Inc()
	}
	return nil
}

// RecordGiveUp counts an event the publisher could not deliver
func RecordGiveUp(evt event.Event, _ error) {
	EventPublishErrors.WithLabelValues(string(evt.Type)).Inc()
}
