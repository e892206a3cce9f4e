package dispatch

import (
	"context"
	"fmt"
)

// Source supplies the bindings for an environment.
type Source interface {
	Load(ctx context.Context, environment string) (Bindings, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context, environment string) (Bindings, error)

// Load implements the Source interface.
func (f SourceFunc) Load(ctx context.Context, environment string) (Bindings, error) {
	return f(ctx, environment)
}

// StaticSource holds bindings per environment in memory.
// Each Load returns a fresh copy, so dispatchers sharing a StaticSource do
// not share instantiated handlers.
type StaticSource map[string]Bindings

// Load implements the Source interface.
func (s StaticSource) Load(_ context.Context, environment string) (Bindings, error) {
	b, ok := s[environment]
	if !ok {
		return nil, fmt.Errorf("%w: events.%s", ErrEnvironmentNotConfigured, environment)
	}
	return b.Clone(), nil
}
