package event

import "context"

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	// Returning ErrStopPropagation halts delivery to the remaining handlers.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Named is implemented by handlers that want to control the name used
// for them in log output.
type Named interface {
	HandlerName() string
}

// HandlerName returns the name used for h in diagnostics.
func HandlerName(h Handler) string {
	if h == nil {
		return "<nil>"
	}
	if n, ok := h.(Named); ok {
		return n.HandlerName()
	}
	return TypeName(h)
}

// TypedHandlerFunc adapts a function that only cares about one event type.
// Events of any other type are ignored.
type TypedHandlerFunc[T any] func(ctx context.Context, event T) error

// Handle implements the Handler interface.
func (f TypedHandlerFunc[T]) Handle(ctx context.Context, event any) error {
	switch e := event.(type) {
	case T:
		return f(ctx, e)
	case *T:
		if e != nil {
			return f(ctx, *e)
		}
	}
	return nil
}
