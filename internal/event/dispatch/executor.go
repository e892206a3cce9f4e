package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"

	"github.com/dshills/evfire/internal/event"
)

// Executor handles the actual execution of event handlers with
// panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs a handler with the given event and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Execute(ctx context.Context, ev any, handler event.Handler) (result Result) {
	result.Handler = event.HandlerName(handler)
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Stopped = false
			result.Panicked = true
			result.PanicValue = r
			result.Error = &PanicError{Handler: result.Handler, Value: r}
			result.Stack = stack

			if e.panicHandler != nil {
				func() {
					defer func() {
						// A panicking panic handler must not take the dispatch down.
						_ = recover()
					}()
					e.panicHandler(ev, r, stack)
				}()
			}
		}
	}()

	err := handler.Handle(ctx, ev)

	switch {
	case err == nil:
		result.Success = true
	case event.IsStop(err):
		result.Success = true
		result.Stopped = true
	default:
		result.Error = err
		result.Stack = errorStack(err)
	}

	return result
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// errorStack returns the stack recorded by github.com/pkg/errors when err
// carries one, and the current stack otherwise.
func errorStack(err error) []byte {
	var st stackTracer
	if errors.As(err, &st) {
		return []byte(fmt.Sprintf("%+v", st.StackTrace()))
	}
	return debug.Stack()
}
