package shop

import (
	"log/slog"

	"github.com/dshills/evfire/internal/event"
	"github.com/dshills/evfire/internal/event/dispatch"
)

// DefaultStock seeds the inventory used by Register.
var DefaultStock = map[string]int{
	"apple":  10,
	"pear":   5,
	"banana": 20,
}

// Shop holds the state shared by the shop handlers.
type Shop struct {
	Outbox    *Outbox
	Inventory *Inventory
	Trail     *Trail
}

// Register installs the shop handler constructors and event kinds. Every
// handler built from ctors shares the returned Shop.
func Register(ctors *dispatch.Constructors, catalog *event.Catalog, logger *slog.Logger) (*Shop, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Shop{
		Outbox:    &Outbox{},
		Inventory: NewInventory(DefaultStock),
		Trail:     &Trail{},
	}

	if catalog != nil {
		event.RegisterKind[OrderPlaced](catalog)
		event.RegisterKind[PriorityOrderPlaced](catalog)
		event.RegisterKind[OrderCancelled](catalog)
	}
	if ctors == nil {
		return s, nil
	}

	log := logger.With("component", "shop")
	if _, err := dispatch.RegisterType(ctors, func() *EmailReceipt {
		return &EmailReceipt{outbox: s.Outbox, logger: log}
	}); err != nil {
		return nil, err
	}
	if _, err := dispatch.RegisterType(ctors, func() *ReserveInventory {
		return &ReserveInventory{inventory: s.Inventory, logger: log}
	}); err != nil {
		return nil, err
	}
	if _, err := dispatch.RegisterType(ctors, func() *AuditTrail {
		return &AuditTrail{trail: s.Trail, logger: log}
	}); err != nil {
		return nil, err
	}
	return s, nil
}
