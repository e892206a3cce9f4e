// Package dispatch delivers events to the handlers bound to their type.
//
// # Bindings
//
// A Dispatcher reads its Bindings from a Source the first time an event is
// fired, using the key events.<environment>. Bindings map an event type name
// (see event.TypeName) to an ordered list of entries. An entry is either a
// handler instance or a reference that a Resolver turns into a handler on
// first use; the instance then replaces the reference for later dispatches.
// References no resolver knows are skipped on every dispatch.
//
// # Dispatch
//
// Handlers run synchronously in list order in the caller's goroutine. A
// handler returning event.ErrStopPropagation ends the dispatch. A handler that
// returns any other error or panics is logged at error level with a dump of
// the event's fields and a stack trace, and the next handler still runs.
//
// Only a nil event or a failure to load the bindings is returned to the
// caller of Fire.
//
// # Usage
//
//	ctors := dispatch.NewConstructors()
//	ctors.Register("mailer", func() event.Handler { return &Mailer{} })
//
//	d := dispatch.New(source,
//	    dispatch.WithEnvironment("production"),
//	    dispatch.WithResolver(ctors),
//	    dispatch.WithLogger(logger),
//	)
//	if err := d.Fire(ctx, OrderPlaced{ID: "A-1"}); err != nil {
//	    // bindings could not be loaded
//	}
package dispatch
