package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/dshills/evfire/internal/event"
)

var errHandlerFailed = errors.New("one or more handlers failed")

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "evfire",
		Short: "Fire events through a configured handler table",
		Long: "evfire loads the handler table for an environment from an events file\n" +
			"and dispatches events to the handlers bound to their exact type.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "events file (env EVFIRE_CONFIG)")
	pf.StringP("env", "e", "", "environment section to load (env EVFIRE_ENV)")
	pf.String("scripts", "", "directory for lua: handlers (env EVFIRE_SCRIPT_DIR)")
	pf.String("log-level", "", "debug, info, warn or error (env EVFIRE_LOG_LEVEL)")
	pf.String("log-format", "", "text or json (env EVFIRE_LOG_FORMAT)")

	root.AddCommand(
		newFireCmd(a),
		newRoutesCmd(a),
		newKindsCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newFireCmd(a *app) *cobra.Command {
	var data string
	var strict bool

	cmd := &cobra.Command{
		Use:   "fire <event-type>",
		Short: "Decode an event from JSON and dispatch it",
		Long: "Fire decodes --data into the named event kind and dispatches it.\n" +
			"The kind may be the full type name or its unqualified suffix.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := a.lookupKind(args[0])
			if err != nil {
				return err
			}
			ev, err := a.catalog.Decode(kind, []byte(data))
			if err != nil {
				return err
			}

			report, err := a.dispatcher.Dispatch(cmd.Context(), ev)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s (dispatch %s)\n", kind, report.DispatchID)
			if len(report.Results) == 0 {
				fmt.Fprintln(a.out, "  no handlers ran")
			}
			for _, r := range report.Results {
				fmt.Fprintf(a.out, "  %-8s %s %s\n", outcome(r.Stopped, r.Failed()), r.Handler, r.Duration)
				if r.Error != nil {
					fmt.Fprintf(a.out, "           %v\n", r.Error)
				}
			}
			if strict && len(report.Failures()) > 0 {
				return errHandlerFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "event payload as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a handler fails")
	return cmd
}

func outcome(stopped, failed bool) string {
	switch {
	case failed:
		return "FAILED"
	case stopped:
		return "stopped"
	default:
		return "ok"
	}
}

// lookupKind accepts a full kind name or a unique suffix such as
// "shop.OrderPlaced" or "OrderPlaced".
func (a *app) lookupKind(name string) (string, error) {
	if a.catalog.Has(name) {
		return name, nil
	}
	matches := lo.Filter(a.catalog.Names(), func(kind string, _ int) bool {
		return strings.HasSuffix(kind, "/"+name) || strings.HasSuffix(kind, "."+name)
	})
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s", event.ErrUnknownKind, name)
	default:
		return "", fmt.Errorf("%w: %s is ambiguous (%s)", event.ErrUnknownKind, name, strings.Join(matches, ", "))
	}
}

func newRoutesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the handler table for the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := a.dispatcher.Routes(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "events.%s from %s\n", a.settings.Environment, a.settings.ConfigPath)
			if len(routes) == 0 {
				fmt.Fprintln(a.out, "  (no bindings)")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, route := range routes {
				fmt.Fprintf(tw, "%s\n", route.Event)
				for i, e := range route.Entries {
					fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, e.Name, e.State)
				}
			}
			return tw.Flush()
		},
	}
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List event kinds and handler constructors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, "Event kinds:")
			for _, name := range a.catalog.Names() {
				fmt.Fprintf(a.out, "  %s\n", name)
			}

			fmt.Fprintln(a.out, "Handlers:")
			for _, name := range a.ctors.Names() {
				fmt.Fprintf(a.out, "  %s\n", name)
			}

			fmt.Fprintf(a.out, "Scripts (%s):\n", a.scripts.Dir())
			refs := a.scripts.Scripts()
			sort.Strings(refs)
			if len(refs) == 0 {
				fmt.Fprintln(a.out, "  (none)")
			}
			for _, ref := range refs {
				fmt.Fprintf(a.out, "  %s\n", ref)
			}
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "evfire %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
