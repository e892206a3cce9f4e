package dispatch

import "time"

// Result represents the outcome of a handler execution.
type Result struct {
	// Handler is the name of the handler that ran.
	Handler string

	// Success is true if the handler completed without error or panic.
	// A handler that stopped propagation is successful.
	Success bool

	// Stopped is true if the handler asked to stop propagation.
	Stopped bool

	// Error is the error returned by the handler, or a *PanicError.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// Stack is the stack trace associated with a failure.
	Stack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// Failed returns true if the handler returned an error or panicked.
func (r Result) Failed() bool {
	return r.Panicked || r.Error != nil
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// Report describes one dispatch.
type Report struct {
	// Event is the type name the event was dispatched on.
	Event string

	// DispatchID identifies this dispatch in log output.
	DispatchID string

	// Results holds one entry per handler that ran, in order.
	Results []Result

	// Stopped is true if a handler stopped propagation.
	Stopped bool
}

// Failures returns the results of handlers that failed.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// PanicHandler is called when a handler panics during execution.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(event any, panicValue any, stack []byte)
