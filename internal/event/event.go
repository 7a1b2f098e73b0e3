package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/wardrobe/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string                 `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Ownership event types
const (
	ItemGranted     Type = domain.EventTypeItemGranted
	ItemEquipped    Type = domain.EventTypeItemEquipped
	ItemsUnequipped Type = domain.EventTypeItemsUnequipped
	ItemDeleted     Type = domain.EventTypeItemDeleted
)

// OwnershipPayloadV1 is the typed payload for ownership change events
type OwnershipPayloadV1 struct {
	UserID    int64  `json:"user_id"`
	ItemID    int64  `json:"item_id,omitempty"`
	ItemType  string `json:"item_type,omitempty"`
	Count     int64  `json:"count,omitempty"` // records touched, for bulk unequip
	Timestamp int64  `json:"timestamp"`
}

// NewItemGrantedEvent creates an event for a newly materialized ownership record
func NewItemGrantedEvent(userID, itemID int64, itemType string) Event {
	return newOwnershipEvent(ItemGranted, OwnershipPayloadV1{UserID: userID, ItemID: itemID, ItemType: itemType})
}

// NewItemEquippedEvent creates an event for an equip
func NewItemEquippedEvent(userID, itemID int64, itemType string) Event {
	return newOwnershipEvent(ItemEquipped, OwnershipPayloadV1{UserID: userID, ItemID: itemID, ItemType: itemType})
}

// NewItemsUnequippedEvent creates an event for a by-type unequip
func NewItemsUnequippedEvent(userID int64, itemType string, count int64) Event {
	return newOwnershipEvent(ItemsUnequipped, OwnershipPayloadV1{UserID: userID, ItemType: itemType, Count: count})
}

// NewItemDeletedEvent creates an event for a removed ownership record
func NewItemDeletedEvent(userID, itemID int64) Event {
	return newOwnershipEvent(ItemDeleted, OwnershipPayloadV1{UserID: userID, ItemID: itemID})
}

func newOwnershipEvent(t Type, payload OwnershipPayloadV1) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Publisher is the narrow publishing side of a Bus
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus defines the interface for an event bus
type Bus interface {
	Publisher
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish delivers the event synchronously to every subscriber of its type
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerErrorsFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }
