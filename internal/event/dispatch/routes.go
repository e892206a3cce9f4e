package dispatch

import (
	"context"
	"sort"
)

// EntryState describes how an entry will behave on the next dispatch.
type EntryState string

const (
	// StateInstance means the entry holds a handler.
	StateInstance EntryState = "instance"

	// StateReference means the entry will be instantiated on first use.
	StateReference EntryState = "reference"

	// StateUnresolvable means no resolver knows the reference; the entry is skipped.
	StateUnresolvable EntryState = "unresolvable"

	// StateUnknown means the resolver cannot check references ahead of time.
	StateUnknown EntryState = "unknown"
)

// Route describes the handlers bound to one event type.
type Route struct {
	Event   string
	Entries []RouteEntry
}

// RouteEntry describes one handler entry.
type RouteEntry struct {
	Name  string
	State EntryState
}

// Routes loads the bindings if needed and describes them, sorted by event
// type name. It does not instantiate anything.
func (d *Dispatcher) Routes(ctx context.Context) ([]Route, error) {
	table, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(table))
	for name, entries := range table {
		route := Route{Event: name, Entries: make([]RouteEntry, len(entries))}
		for i, e := range entries {
			route.Entries[i] = RouteEntry{Name: e.Name(), State: d.stateOf(e)}
		}
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Event < routes[j].Event
	})
	return routes, nil
}

func (d *Dispatcher) stateOf(e *Entry) EntryState {
	if e.Instantiated() {
		return StateInstance
	}
	if e.Reference() == "" || d.resolver == nil {
		return StateUnresolvable
	}
	c, ok := d.resolver.(Checker)
	if !ok {
		return StateUnknown
	}
	if c.CanResolve(e.Reference()) {
		return StateReference
	}
	return StateUnresolvable
}
