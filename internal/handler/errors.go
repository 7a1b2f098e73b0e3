package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"

	// Inventory read error messages
	ErrMsgGetItemsFailed    = "Failed to get inventory items"
	ErrMsgGetEquippedFailed = "Failed to get equipped items"

	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgTimeoutError       = "The request timed out. Please try again."
	ErrMsgUnknownTypeError   = "Unknown item type"
)
