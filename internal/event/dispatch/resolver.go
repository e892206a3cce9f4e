package dispatch

import (
	"sort"
	"sync"

	"github.com/dshills/evfire/internal/event"
)

// Resolver turns a handler reference into a handler instance.
// It returns false if the reference names nothing it knows.
type Resolver interface {
	Resolve(ref string) (event.Handler, bool)
}

// Checker is implemented by resolvers that can tell whether a reference
// would resolve without instantiating it.
type Checker interface {
	CanResolve(ref string) bool
}

// ResolverFunc is a function adapter for Resolver.
type ResolverFunc func(ref string) (event.Handler, bool)

// Resolve implements the Resolver interface.
func (f ResolverFunc) Resolve(ref string) (event.Handler, bool) {
	return f(ref)
}

// Constructors is a registry of named no-argument handler constructors.
// It is safe for concurrent use.
type Constructors struct {
	mu    sync.RWMutex
	ctors map[string]func() event.Handler
}

// NewConstructors creates an empty constructor registry.
func NewConstructors() *Constructors {
	return &Constructors{
		ctors: make(map[string]func() event.Handler),
	}
}

// Register binds name to ctor. A later registration under the same name
// replaces the earlier one.
func (c *Constructors) Register(name string, ctor func() event.Handler) error {
	if name == "" {
		return ErrInvalidReference
	}
	if ctor == nil {
		return event.ErrNilHandler
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ctors[name] = ctor
	return nil
}

// RegisterType registers ctor under the type name of H and returns that name.
func RegisterType[H event.Handler](c *Constructors, ctor func() H) (string, error) {
	if ctor == nil {
		return "", event.ErrNilHandler
	}
	name := event.TypeNameOf[H]()
	return name, c.Register(name, func() event.Handler { return ctor() })
}

// Resolve implements the Resolver interface.
func (c *Constructors) Resolve(ref string) (event.Handler, bool) {
	c.mu.RLock()
	ctor, ok := c.ctors[ref]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	h := ctor()
	return h, h != nil
}

// CanResolve implements the Checker interface.
func (c *Constructors) CanResolve(ref string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.ctors[ref]
	return ok
}

// Names returns the registered names in sorted order.
func (c *Constructors) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.ctors))
	for name := range c.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolvers tries each resolver in order and uses the first that succeeds.
type Resolvers []Resolver

// Resolve implements the Resolver interface.
func (rs Resolvers) Resolve(ref string) (event.Handler, bool) {
	for _, r := range rs {
		if r == nil {
			continue
		}
		if h, ok := r.Resolve(ref); ok {
			return h, true
		}
	}
	return nil, false
}

// CanResolve implements the Checker interface. Resolvers that do not
// implement Checker are not consulted.
func (rs Resolvers) CanResolve(ref string) bool {
	for _, r := range rs {
		if c, ok := r.(Checker); ok && c.CanResolve(ref) {
			return true
		}
	}
	return false
}
