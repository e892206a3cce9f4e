package shop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/dshills/evfire/internal/event"
)

// ErrNoRecipient is returned by EmailReceipt when the customer has no email.
var ErrNoRecipient = errors.New("customer has no email address")

// order extracts the order from the order events.
func order(ev any) (OrderPlaced, bool) {
	switch e := ev.(type) {
	case OrderPlaced:
		return e, true
	case *OrderPlaced:
		if e != nil {
			return *e, true
		}
	case PriorityOrderPlaced:
		return e.OrderPlaced, true
	case *PriorityOrderPlaced:
		if e != nil {
			return e.OrderPlaced, true
		}
	}
	return OrderPlaced{}, false
}

// cancellation extracts the cancellation from an OrderCancelled event.
func cancellation(ev any) (OrderCancelled, bool) {
	switch e := ev.(type) {
	case OrderCancelled:
		return e, true
	case *OrderCancelled:
		if e != nil {
			return *e, true
		}
	}
	return OrderCancelled{}, false
}

// EmailReceipt queues a receipt for placed and cancelled orders.
type EmailReceipt struct {
	outbox *Outbox
	logger *slog.Logger
}

// Handle implements event.Handler.
func (h *EmailReceipt) Handle(ctx context.Context, ev any) error {
	var r Receipt
	if o, ok := order(ev); ok {
		if o.Customer.Email == "" {
			return errors.Wrapf(ErrNoRecipient, "order %s", o.ID)
		}
		r = Receipt{
			To:      o.Customer.Email,
			Subject: fmt.Sprintf("Order %s confirmed", o.ID),
			Body:    fmt.Sprintf("%d item(s), total %.2f", len(o.Items), o.Total()),
		}
	} else if c, ok := cancellation(ev); ok {
		if c.Customer.Email == "" {
			return errors.Wrapf(ErrNoRecipient, "order %s", c.ID)
		}
		r = Receipt{
			To:      c.Customer.Email,
			Subject: fmt.Sprintf("Order %s cancelled", c.ID),
			Body:    c.Reason,
		}
	} else {
		return nil
	}

	h.outbox.Add(r)
	h.logger.InfoContext(ctx, "receipt queued", "to", r.To, "subject", r.Subject)
	return nil
}

// ReserveInventory holds stock for an order. An order without items stops
// propagation: there is nothing further to process.
type ReserveInventory struct {
	inventory *Inventory
	logger    *slog.Logger
}

// Handle implements event.Handler.
func (h *ReserveInventory) Handle(ctx context.Context, ev any) error {
	o, ok := order(ev)
	if !ok {
		return nil
	}
	if len(o.Items) == 0 {
		h.logger.WarnContext(ctx, "order has no items", "order", o.ID)
		return event.ErrStopPropagation
	}
	if err := h.inventory.Reserve(o.Items); err != nil {
		return errors.WithStack(err)
	}
	h.logger.InfoContext(ctx, "inventory reserved", "order", o.ID, "skus", o.SKUs())
	return nil
}

// AuditTrail records every event it receives.
type AuditTrail struct {
	trail  *Trail
	logger *slog.Logger
}

// Handle implements event.Handler.
func (h *AuditTrail) Handle(ctx context.Context, ev any) error {
	var key string
	if o, ok := order(ev); ok {
		key = o.ID
	} else if c, ok := cancellation(ev); ok {
		key = c.ID
	}
	rec := AuditRecord{Event: event.TypeName(ev), Key: key}
	h.trail.Append(rec)
	h.logger.DebugContext(ctx, "audit", "event", rec.Event, "key", rec.Key)
	return nil
}
