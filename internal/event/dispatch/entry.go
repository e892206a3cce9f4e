package dispatch

import (
	"sync"

	"github.com/dshills/evfire/internal/event"
)

// Entry is one position in an event's handler list. It is either a reference
// that has not been instantiated yet or an instantiated handler. The first
// successful resolution replaces the reference with the handler, and every
// later dispatch reuses that instance.
type Entry struct {
	mu      sync.Mutex
	ref     string
	handler event.Handler
}

// Ref creates an entry that names a handler to be instantiated on first use.
func Ref(name string) *Entry {
	return &Entry{ref: name}
}

// Instance creates an entry holding an already constructed handler.
func Instance(h event.Handler) *Entry {
	return &Entry{handler: h}
}

// Reference returns the name the entry was created with, or "" for entries
// created from an instance.
func (e *Entry) Reference() string {
	return e.ref
}

// Instantiated reports whether the entry holds a handler.
func (e *Entry) Instantiated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handler != nil
}

// Name returns the handler name if instantiated, otherwise the reference.
func (e *Entry) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handler != nil {
		return event.HandlerName(e.handler)
	}
	return e.ref
}

// resolve returns the entry's handler, instantiating it through r on first
// use. The lock is held across construction so concurrent dispatches build
// at most one instance. A reference r cannot resolve is left as is.
func (e *Entry) resolve(r Resolver) (event.Handler, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handler != nil {
		return e.handler, true
	}
	if e.ref == "" || r == nil {
		return nil, false
	}

	h, ok := r.Resolve(e.ref)
	if !ok || h == nil {
		return nil, false
	}
	e.handler = h
	return h, true
}

// clone returns an entry in the same state that does not share memoization.
func (e *Entry) clone() *Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &Entry{ref: e.ref, handler: e.handler}
}

// Bindings maps event type names to their ordered handler entries.
type Bindings map[string][]*Entry

// Bind appends entries to the list for eventType and returns b.
func (b Bindings) Bind(eventType string, entries ...*Entry) Bindings {
	b[eventType] = append(b[eventType], entries...)
	return b
}

// Clone returns a deep copy whose entries memoize independently.
func (b Bindings) Clone() Bindings {
	if b == nil {
		return nil
	}
	out := make(Bindings, len(b))
	for name, entries := range b {
		cp := make([]*Entry, len(entries))
		for i, e := range entries {
			cp[i] = e.clone()
		}
		out[name] = cp
	}
	return out
}
