package shop

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Receipt is a message queued for delivery by EmailReceipt.
type Receipt struct {
	To      string
	Subject string
	Body    string
}

// Outbox collects receipts. It is safe for concurrent use.
type Outbox struct {
	mu       sync.Mutex
	receipts []Receipt
}

// Add queues a receipt.
func (o *Outbox) Add(r Receipt) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.receipts = append(o.receipts, r)
}

// Receipts returns a copy of the queued receipts.
func (o *Outbox) Receipts() []Receipt {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Receipt, len(o.receipts))
	copy(out, o.receipts)
	return out
}

// InsufficientStockError reports a reservation that could not be met.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.SKU, e.Requested, e.Available)
}

// Inventory tracks stock levels and reservations per SKU.
type Inventory struct {
	mu       sync.Mutex
	stock    map[string]int
	reserved map[string]int
}

// NewInventory creates an inventory with the given stock levels.
func NewInventory(stock map[string]int) *Inventory {
	inv := &Inventory{
		stock:    make(map[string]int, len(stock)),
		reserved: make(map[string]int),
	}
	for sku, n := range stock {
		inv.stock[sku] = n
	}
	return inv
}

// Reserve holds stock for every item or for none of them.
func (inv *Inventory) Reserve(items []LineItem) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	want := make(map[string]int)
	for _, it := range items {
		want[it.SKU] += it.Qty
	}

	skus := lo.Keys(want)
	sort.Strings(skus)
	for _, sku := range skus {
		if avail := inv.stock[sku] - inv.reserved[sku]; want[sku] > avail {
			return &InsufficientStockError{SKU: sku, Requested: want[sku], Available: avail}
		}
	}
	for sku, n := range want {
		inv.reserved[sku] += n
	}
	return nil
}

// Reserved returns the reserved quantity for sku.
func (inv *Inventory) Reserved(sku string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.reserved[sku]
}

// Available returns the unreserved quantity for sku.
func (inv *Inventory) Available(sku string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.stock[sku] - inv.reserved[sku]
}

// AuditRecord is one line of the audit trail.
type AuditRecord struct {
	Event string
	Key   string
}

// Trail is an append-only audit log. It is safe for concurrent use.
type Trail struct {
	mu      sync.Mutex
	records []AuditRecord
}

// Append adds a record.
func (t *Trail) Append(r AuditRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Records returns a copy of the trail.
func (t *Trail) Records() []AuditRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]AuditRecord, len(t.records))
	copy(out, t.records)
	return out
}
