package event

import "errors"

// Sentinel errors for the event package.
var (
	// ErrStopPropagation is returned by a handler to stop delivery of the
	// current event to the handlers after it. It is not a failure.
	ErrStopPropagation = errors.New("stop propagation")

	// ErrInvalidEvent is returned when an event is nil.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrUnknownKind is returned when decoding an event kind that was never registered.
	ErrUnknownKind = errors.New("unknown event kind")
)

// IsStop reports whether err asks to stop propagation.
func IsStop(err error) bool {
	return errors.Is(err, ErrStopPropagation)
}
