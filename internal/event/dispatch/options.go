package dispatch

import "log/slog"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEnvironment selects which environment's bindings are loaded.
func WithEnvironment(env string) Option {
	return func(d *Dispatcher) {
		if env != "" {
			d.environment = env
		}
	}
}

// WithResolver sets the resolver used to instantiate handler references.
func WithResolver(r Resolver) Option {
	return func(d *Dispatcher) {
		d.resolver = r
	}
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPanicHandler sets a callback invoked when a handler panics, in
// addition to the error log entry.
func WithPanicHandler(h PanicHandler) Option {
	return func(d *Dispatcher) {
		d.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}
