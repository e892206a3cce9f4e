package script

import "errors"

// Errors for Lua handlers.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoHandleFunc is returned when a script does not define handle(event).
	ErrNoHandleFunc = errors.New("lua script has no handle function")
)
