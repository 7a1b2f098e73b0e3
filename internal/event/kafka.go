package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/wardrobe/internal/tracing"
)

// messageWriter is the subset of *kafka.Writer used by KafkaBus
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBus publishes events to a Kafka topic and fans them out to local
// subscribers. Messages are keyed by user so one user's changes stay ordered
// within a partition.
type KafkaBus struct {
	writer messageWriter
	local  *MemoryBus
}

// NewKafkaBus creates a KafkaBus writing to topic on the given brokers
func NewKafkaBus(brokers []string, topic string) *KafkaBus {
	return newKafkaBus(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func newKafkaBus(w messageWriter) *KafkaBus {
	return &KafkaBus{writer: w, local: NewMemoryBus()}
}

// Publish writes the event to Kafka, then dispatches it to local subscribers
func (b *KafkaBus) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   messageKey(event),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderEventVersion, Value: []byte(event.Version)},
		},
	}
	for k, v := range tracing.Inject(ctx) {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s to kafka: %w", event.Type, err)
	}
	return b.local.Publish(ctx, event)
}

// Subscribe registers a local handler
func (b *KafkaBus) Subscribe(eventType Type, handler Handler) {
	b.local.Subscribe(eventType, handler)
}

// Close flushes and closes the underlying writer
func (b *KafkaBus) Close() error {
	return b.writer.Close()
}

// TraceContext recovers the producer's trace context from message headers
func TraceContext(ctx context.Context, msg kafka.Message) context.Context {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return tracing.Extract(ctx, headers)
}

func messageKey(event Event) []byte {
	if p, ok := event.Payload.(OwnershipPayloadV1); ok {
		return []byte(strconv.FormatInt(p.UserID, 10))
	}
	return nil
}
