package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingFrom  = errors.New("from is required")
	ErrMissingTo    = errors.New("to is required")
	ErrInvalidInput = errors.New("invalid input")
)

// Sentinel errors for lookups.
var (
	ErrUnknownCountry       = errors.New("unknown country")
	ErrDirectoryUnavailable = errors.New("country directory unavailable")
	ErrHistoryDisabled      = errors.New("search history is not configured")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%w: %s exceeds maximum length of %d", ErrInvalidInput, field, maxLen)
}
