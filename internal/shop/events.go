// Package shop is a small order-processing domain wired to the event
// dispatcher. It provides the events, handlers and registration used by the
// evfire command.
package shop

import (
	"time"

	"github.com/samber/lo"
)

// Customer identifies the buyer of an order.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AsMap implements event.Record.
func (c Customer) AsMap() map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"email": c.Email,
	}
}

// LineItem is one product line of an order.
type LineItem struct {
	SKU   string  `json:"sku"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// OrderPlaced is fired when a customer submits an order.
type OrderPlaced struct {
	ID       string     `json:"id"`
	Customer Customer   `json:"customer"`
	Items    []LineItem `json:"items"`
	PlacedAt time.Time  `json:"placed_at"`
}

// Total returns the order value.
func (o OrderPlaced) Total() float64 {
	return lo.SumBy(o.Items, func(it LineItem) float64 {
		return float64(it.Qty) * it.Price
	})
}

// SKUs returns the distinct SKUs in the order, in first-seen order.
func (o OrderPlaced) SKUs() []string {
	return lo.Uniq(lo.Map(o.Items, func(it LineItem, _ int) string {
		return it.SKU
	}))
}

// PriorityOrderPlaced is fired for rush orders. It embeds OrderPlaced but is a
// distinct event type: handlers bound to OrderPlaced do not see it.
type PriorityOrderPlaced struct {
	OrderPlaced
	ShipBy time.Time `json:"ship_by"`
}

// OrderCancelled is fired when an order is withdrawn.
type OrderCancelled struct {
	ID       string   `json:"id"`
	Customer Customer `json:"customer"`
	Reason   string   `json:"reason"`
}
