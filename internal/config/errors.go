package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrMalformedBindings indicates an events section that is not a map of
	// event type names to lists of handler names.
	ErrMalformedBindings = errors.New("malformed event bindings")

	// ErrInvalidSettings indicates a setting with an unusable value.
	ErrInvalidSettings = errors.New("invalid settings")
)

// BindingError describes a malformed value in an events section.
type BindingError struct {
	// Key is the full setting path, e.g. "events.production.shop.OrderPlaced".
	Key string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// Is allows errors.Is to match BindingError with ErrMalformedBindings.
func (e *BindingError) Is(target error) bool {
	return target == ErrMalformedBindings
}
