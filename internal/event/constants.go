package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Retry configuration defaults
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Kafka message header keys
const (
	HeaderEventType    = "event_type"
	HeaderEventVersion = "event_version"
)

// Error message formats
const (
	ErrMsgHandlerErrorsFormat = "%d handler(s) failed for event %s: %w"
)
