// Package event defines the handler contract and the event introspection
// helpers used by the dispatcher.
//
// # Events
//
// An event is any Go value, usually a struct. Its concrete type name, as
// returned by TypeName, is the dispatch key:
//
//	event.TypeName(shop.OrderPlaced{}) // "github.com/dshills/evfire/internal/shop.OrderPlaced"
//
// Matching is exact. A type that embeds or is defined from another event type
// has its own name and does not receive the other type's handlers.
//
// # Handlers
//
// Handlers implement Handler. Returning nil continues delivery; returning
// ErrStopPropagation stops it without being treated as a failure. Any other
// error is a failure that gets logged by the dispatcher while delivery
// continues with the next handler.
//
//	h := event.HandlerFunc(func(ctx context.Context, ev any) error {
//	    order := ev.(shop.OrderPlaced)
//	    if len(order.Items) == 0 {
//	        return event.ErrStopPropagation
//	    }
//	    return nil
//	})
//
// # Context dumps
//
// FormatContext renders an event's exported fields for error logs. Values
// implementing Record are rendered through their AsMap method.
package event
