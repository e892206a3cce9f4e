package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch package.
var (
	// ErrLoad matches every *LoadError.
	ErrLoad = errors.New("loading event bindings")

	// ErrNoSource is returned when a dispatcher has no bindings source.
	ErrNoSource = errors.New("no bindings source configured")

	// ErrEnvironmentNotConfigured is returned by sources that have no
	// bindings for the requested environment.
	ErrEnvironmentNotConfigured = errors.New("environment not configured")

	// ErrHandlerPanic matches every *PanicError.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrInvalidReference is returned when registering an empty handler name.
	ErrInvalidReference = errors.New("invalid handler reference")
)

// LoadError is returned by Fire when the bindings cannot be loaded.
type LoadError struct {
	// Environment is the environment whose bindings were requested.
	Environment string

	// Err is the underlying error from the source.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading events.%s: %v", e.Environment, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match LoadError with ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Handler is the name of the handler that panicked.
	Handler string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler %s panicked: %v", e.Handler, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
