package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dshills/evfire/internal/config/loader"
	"github.com/dshills/evfire/internal/event/dispatch"
)

// maxIncludeDepth limits nested @include directives in events files.
const maxIncludeDepth = 8

// EventsSource reads event bindings from a TOML or YAML file. The file holds
// one table per environment under "events":
//
//	[events.production]
//	"github.com/acme/shop.OrderPlaced" = ["github.com/acme/shop.EmailReceipt", "lua:audit.lua"]
//
// Every handler name becomes a dispatch.Ref entry.
type EventsSource struct {
	fs   loader.FileSystem
	path string
}

// SourceOption configures an EventsSource.
type SourceOption func(*EventsSource)

// WithFileSystem reads the events file from fsys instead of the OS.
func WithFileSystem(fsys loader.FileSystem) SourceOption {
	return func(s *EventsSource) {
		s.fs = fsys
	}
}

// NewEventsSource creates a source for the events file at path.
func NewEventsSource(path string, opts ...SourceOption) *EventsSource {
	s := &EventsSource{
		fs:   loader.DefaultFS(),
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the events file path.
func (s *EventsSource) Path() string {
	return s.path
}

// Load implements dispatch.Source.
func (s *EventsSource) Load(ctx context.Context, environment string) (dispatch.Bindings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := loader.ForPath(s.fs, s.path)
	if err != nil {
		return nil, err
	}
	if _, err := s.fs.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, s.path)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	// An empty file decodes to nil; it exists but configures nothing.
	raw, err := l.LoadWithIncludes(s.path, maxIncludeDepth)
	if err != nil {
		return nil, err
	}

	key := "events." + environment
	events, ok := raw["events"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", dispatch.ErrEnvironmentNotConfigured, key, s.path)
	}
	section, exists := events[environment]
	if !exists {
		return nil, fmt.Errorf("%w: %s in %s", dispatch.ErrEnvironmentNotConfigured, key, s.path)
	}

	return toBindings(key, section)
}

// toBindings converts a decoded events.<environment> table into Bindings.
func toBindings(key string, section any) (dispatch.Bindings, error) {
	if section == nil {
		return dispatch.Bindings{}, nil
	}
	table, ok := section.(map[string]any)
	if !ok {
		return nil, &BindingError{Key: key, Message: fmt.Sprintf("expected a table, got %T", section)}
	}

	b := make(dispatch.Bindings, len(table))
	for eventType, value := range table {
		names, err := handlerNames(value)
		if err != nil {
			return nil, &BindingError{Key: key + "." + eventType, Message: err.Error()}
		}
		entries := make([]*dispatch.Entry, len(names))
		for i, name := range names {
			entries[i] = dispatch.Ref(name)
		}
		b[eventType] = entries
	}
	return b, nil
}

func handlerNames(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("empty handler name")
		}
		return []string{v}, nil
	case []any:
		names := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("entry %d: expected a handler name, got %v (%T)", i, item, item)
			}
			names = append(names, s)
		}
		return names, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected a list of handler names, got %T", value)
	}
}
