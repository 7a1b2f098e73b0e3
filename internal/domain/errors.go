package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgItemNotFound    = "item not found"
	ErrMsgUnknownItemType = "unknown item type"
	ErrMsgInvalidPrice    = "invalid price payload"

	// Ownership errors
	ErrMsgOwnershipNotFound = "ownership record not found"
	ErrMsgAlreadyOwned      = "item already owned"
	ErrMsgNotOwned          = "item not owned"

	// Store errors
	ErrMsgStoreUnavailable = "store unavailable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %d", domain.ErrXxx, id) for additional context.
var (
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrUnknownItemType = errors.New(ErrMsgUnknownItemType)
	ErrInvalidPrice    = errors.New(ErrMsgInvalidPrice)

	ErrOwnershipNotFound = errors.New(ErrMsgOwnershipNotFound)
	ErrAlreadyOwned      = errors.New(ErrMsgAlreadyOwned)
	ErrNotOwned          = errors.New(ErrMsgNotOwned)

	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
