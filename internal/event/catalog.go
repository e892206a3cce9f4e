package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Catalog maps event type names to decoders that build concrete event values
// from JSON. It lets callers outside the process name an event by type and
// still have it dispatched on its real Go type.
type Catalog struct {
	mu    sync.RWMutex
	kinds map[string]func(data []byte) (any, error)
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		kinds: make(map[string]func(data []byte) (any, error)),
	}
}

// RegisterKind adds T to the catalog and returns its type name.
// Registering the same type twice replaces the earlier decoder.
func RegisterKind[T any](c *Catalog) string {
	name := TypeNameOf[T]()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.kinds[name] = func(data []byte) (any, error) {
		var v T
		if len(data) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return v, nil
	}
	return name
}

// Decode builds an event of the named kind from its JSON payload.
// An empty payload yields the zero value.
func (c *Catalog) Decode(name string, data []byte) (any, error) {
	c.mu.RLock()
	decode, ok := c.kinds[name]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return decode(data)
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.kinds[name]
	return ok
}

// Names returns all registered kind names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
