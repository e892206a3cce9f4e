package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/evfire/internal/event"
)

// DefaultEnvironment is the environment used when none is configured.
const DefaultEnvironment = "development"

// Dispatcher delivers fired events to the handlers bound to their exact
// concrete type, in the order the bindings list them.
//
// The bindings are loaded from the Source on the first call to Fire and kept
// for the lifetime of the Dispatcher. A Dispatcher is safe for concurrent use,
// but handlers for one event always run sequentially in the caller's goroutine.
type Dispatcher struct {
	source      Source
	environment string
	resolver    Resolver
	logger      *slog.Logger
	executor    *Executor

	mu     sync.Mutex // guards table and loaded
	table  Bindings
	loaded bool

	// Stats
	fired       atomic.Uint64
	handled     atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	stopped     atomic.Uint64
	skipped     atomic.Uint64
	loads       atomic.Uint64
	totalTimeNs atomic.Int64
}

// New creates a dispatcher that loads its bindings from source.
func New(source Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:      source,
		environment: DefaultEnvironment,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.executor == nil {
		d.executor = NewExecutor()
	}
	return d
}

// Environment returns the environment whose bindings the dispatcher uses.
func (d *Dispatcher) Environment() string {
	return d.environment
}

// Fire delivers ev to its handlers. The only errors returned are
// ErrInvalidEvent for a nil event and a *LoadError when the bindings cannot
// be loaded. Handler failures are logged and never returned.
func (d *Dispatcher) Fire(ctx context.Context, ev any) error {
	_, err := d.Dispatch(ctx, ev)
	return err
}

// Dispatch is Fire, but also returns the outcome of every handler that ran.
func (d *Dispatcher) Dispatch(ctx context.Context, ev any) (Report, error) {
	if ev == nil {
		return Report{}, event.ErrInvalidEvent
	}

	report := Report{
		Event:      event.TypeName(ev),
		DispatchID: uuid.NewString(),
	}
	logger := d.logger.With("event", report.Event, "dispatch_id", report.DispatchID)
	logger.InfoContext(ctx, "event fired")
	d.fired.Add(1)

	table, err := d.load(ctx)
	if err != nil {
		return report, err
	}

	entries := table[report.Event]
	if len(entries) == 0 {
		return report, nil
	}

	for _, entry := range entries {
		h, ok := entry.resolve(d.resolver)
		if !ok {
			d.skipped.Add(1)
			continue
		}

		logger.InfoContext(ctx, "running event handler", "handler", event.HandlerName(h))
		result := d.executor.Execute(ctx, ev, h)
		report.Results = append(report.Results, result)
		d.record(result)

		if result.Failed() {
			d.logFailure(ctx, logger, ev, result)
			continue
		}
		if result.Stopped {
			report.Stopped = true
			break
		}
	}

	return report, nil
}

// load returns the bindings table, reading it from the source if it has not
// been loaded yet. A failed load is not remembered; the next call retries.
func (d *Dispatcher) load(ctx context.Context) (Bindings, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		return d.table, nil
	}
	if d.source == nil {
		return nil, &LoadError{Environment: d.environment, Err: ErrNoSource}
	}

	d.loads.Add(1)
	table, err := d.source.Load(ctx, d.environment)
	if err != nil {
		return nil, &LoadError{Environment: d.environment, Err: err}
	}
	if table == nil {
		table = Bindings{}
	}

	d.table = table
	d.loaded = true
	return d.table, nil
}

func (d *Dispatcher) record(result Result) {
	d.handled.Add(1)
	d.totalTimeNs.Add(result.Duration.Nanoseconds())

	switch {
	case result.Panicked:
		d.panicked.Add(1)
	case result.Error != nil:
		d.failed.Add(1)
	case result.Stopped:
		d.stopped.Add(1)
	}
}

func (d *Dispatcher) logFailure(ctx context.Context, logger *slog.Logger, ev any, result Result) {
	attrs := []any{
		"handler", result.Handler,
		"error", result.Error.Error(),
	}
	if dump := event.FormatContext(ev); dump != "" {
		attrs = append(attrs, "context", dump)
	}
	if len(result.Stack) > 0 {
		attrs = append(attrs, "stack", string(result.Stack))
	}
	logger.ErrorContext(ctx, "event handler failed", attrs...)
}

// Stats returns dispatch statistics.
// Counters are read individually, so values may be slightly inconsistent
// while events are being fired concurrently.
func (d *Dispatcher) Stats() Stats {
	handled := d.handled.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if handled > 0 {
		avgNs = totalNs / int64(handled)
	}

	return Stats{
		Fired:         d.fired.Load(),
		Handled:       handled,
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		Stopped:       d.stopped.Load(),
		Skipped:       d.skipped.Load(),
		Loads:         d.loads.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *Dispatcher) ResetStats() {
	d.fired.Store(0)
	d.handled.Store(0)
	d.failed.Store(0)
	d.panicked.Store(0)
	d.stopped.Store(0)
	d.skipped.Store(0)
	d.loads.Store(0)
	d.totalTimeNs.Store(0)
}

// Stats contains statistics for a dispatcher.
type Stats struct {
	// Fired is the number of events passed to Fire or Dispatch.
	Fired uint64

	// Handled is the number of handler executions.
	Handled uint64

	// Failed is the number of handlers that returned errors.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// Stopped is the number of handlers that stopped propagation.
	Stopped uint64

	// Skipped is the number of entries that could not be resolved to a handler.
	Skipped uint64

	// Loads is the number of times the bindings were read from the source.
	Loads uint64

	// TotalDuration is the cumulative time spent in handlers.
	TotalDuration time.Duration

	// AvgDuration is the average handler execution time.
	AvgDuration time.Duration
}
