package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Test events.
type orderPlaced struct {
	ID    string
	Items []string
}

type priorityOrder struct {
	orderPlaced
	Rush bool
}

type renamedOrder orderPlaced

type emptyEvent struct{}

// callLog records handler invocations in order.
type callLog struct {
	mu    sync.Mutex
	names []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *callLog) calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// stubHandler records its calls and then returns err or panics.
type stubHandler struct {
	name     string
	log      *callLog
	err      error
	panicVal any
}

func (h *stubHandler) Handle(ctx context.Context, ev any) error {
	h.log.add(h.name)
	if h.panicVal != nil {
		panic(h.panicVal)
	}
	return h.err
}

func (h *stubHandler) HandlerName() string {
	return h.name
}

// logEntry is one captured log record with its attributes flattened.
type logEntry struct {
	level slog.Level
	msg   string
	attrs map[string]string
}

// captureHandler is a slog.Handler that keeps records in memory.
type captureHandler struct {
	mu      *sync.Mutex
	entries *[]logEntry
	attrs   []slog.Attr
}

func newCapture() (*slog.Logger, *captureHandler) {
	h := &captureHandler{mu: &sync.Mutex{}, entries: &[]logEntry{}}
	return slog.New(h), h
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	e := logEntry{level: r.Level, msg: r.Message, attrs: make(map[string]string)}
	for _, a := range h.attrs {
		e.attrs[a.Key] = fmt.Sprint(a.Value.Any())
	}
	r.Attrs(func(a slog.Attr) bool {
		e.attrs[a.Key] = fmt.Sprint(a.Value.Any())
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.entries = append(*h.entries, e)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &captureHandler{mu: h.mu, entries: h.entries, attrs: merged}
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) byLevel(level slog.Level) []logEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []logEntry
	for _, e := range *h.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func (h *captureHandler) all() []logEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]logEntry, len(*h.entries))
	copy(out, *h.entries)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
