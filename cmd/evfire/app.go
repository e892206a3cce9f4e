package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/evfire/internal/config"
	"github.com/dshills/evfire/internal/event"
	"github.com/dshills/evfire/internal/event/dispatch"
	"github.com/dshills/evfire/internal/logging"
	"github.com/dshills/evfire/internal/script"
	"github.com/dshills/evfire/internal/shop"
)

// app holds what the commands share: settings, streams and the wired
// dispatcher.
type app struct {
	out    io.Writer
	errOut io.Writer

	settings config.Settings
	logger   *slog.Logger

	catalog    *event.Catalog
	ctors      *dispatch.Constructors
	scripts    *script.Resolver
	dispatcher *dispatch.Dispatcher
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

// setup reads settings, applies flag overrides and wires the dispatcher.
// It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	overrideString(cmd, "env", &s.Environment)
	overrideString(cmd, "config", &s.ConfigPath)
	overrideString(cmd, "scripts", &s.ScriptDir)
	overrideString(cmd, "log-level", &s.LogLevel)
	overrideString(cmd, "log-format", &s.LogFormat)
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	a.logger = logging.New(a.errOut, s.LogLevel, s.LogFormat)

	a.catalog = event.NewCatalog()
	a.ctors = dispatch.NewConstructors()
	if _, err := shop.Register(a.ctors, a.catalog, a.logger); err != nil {
		return err
	}
	a.scripts = script.NewResolver(s.ScriptDir, a.logger)

	a.dispatcher = dispatch.New(config.NewEventsSource(s.ConfigPath),
		dispatch.WithEnvironment(s.Environment),
		dispatch.WithResolver(dispatch.Resolvers{a.ctors, a.scripts}),
		dispatch.WithLogger(a.logger),
	)
	return nil
}

// close releases script states.
func (a *app) close() error {
	if a.scripts == nil {
		return nil
	}
	return a.scripts.Close()
}

// overrideString copies a persistent flag into dst when it was set.
func overrideString(cmd *cobra.Command, name string, dst *string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	*dst = f.Value.String()
}
