package service

import (
	"context"
	"fmt"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/command"
	"wareflow/internal/event"
	"wareflow/internal/model"
	"wareflow/internal/store"
)

// InventoryService manages stock levels and order reservations.
//
// Reservation is all-or-nothing per item but not atomic across an order's
// item list: each line is a separate read-modify-write of the inventory
// collection, and a failure stops the loop without releasing lines already
// reserved. There is no rollback.
type InventoryService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(b bus.Publisher, st store.Store, log *audit.Logger) *InventoryService {
	return &InventoryService{bus: b, store: st, audit: log}
}

// Handle dispatches inventory commands and the order_created event.
func (s *InventoryService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.CheckItem:
		s.CheckItem(ctx, m.ItemName, m.Quantity)
		return nil
	case command.ReserveItem:
		return s.reserveItem(ctx, m)
	case command.ReleaseItem:
		return s.releaseItem(ctx, m)
	case event.OrderCreated:
		s.reserveItemsForOrder(ctx, m)
		return nil
	}
	return nil
}

// CheckItem reports whether the requested quantity is available.
func (s *InventoryService) CheckItem(ctx context.Context, itemName string, quantity int) bool {
	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return false
	}

	item, exists := inventory[itemName]
	if !exists {
		s.audit.Log("STOCK CHECK", "", fmt.Sprintf("item '%s' not found", itemName))
		return false
	}
	if item.Quantity < quantity {
		s.audit.Log("STOCK CHECK", "", fmt.Sprintf(
			"not enough '%s': have %d, need %d", itemName, item.Quantity, quantity))
		return false
	}

	s.audit.Log("STOCK CHECK", "", fmt.Sprintf("item '%s' available: %d", itemName, item.Quantity))
	return true
}

// reserveItem deducts stock for one order line and records the reservation.
// The deduction and the record are a single write: the reservation list is a
// trace of deductions, not separate bookkeeping.
func (s *InventoryService) reserveItem(ctx context.Context, cmd command.ReserveItem) error {
	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return err
	}

	item, exists := inventory[cmd.ItemName]
	if !exists {
		return ErrItemNotFound
	}
	if item.Quantity < cmd.Quantity {
		return ErrInsufficientStock
	}

	item.Quantity -= cmd.Quantity
	item.Reserved = append(item.Reserved, model.Reservation{
		OrderID:  cmd.OrderID,
		Quantity: cmd.Quantity,
	})
	inventory[cmd.ItemName] = item

	if err := s.store.Save(ctx, store.Inventory, inventory); err != nil {
		return err
	}
	s.audit.Log("RESERVED", "", fmt.Sprintf("order %s: %s x%d", cmd.OrderID, cmd.ItemName, cmd.Quantity))

	s.bus.Publish(ctx, event.ItemReserved{
		OrderID:  cmd.OrderID,
		Username: cmd.Username,
		ItemName: cmd.ItemName,
		Quantity: cmd.Quantity,
		Message:  fmt.Sprintf("reserved: %s x%d", cmd.ItemName, cmd.Quantity),
	})
	return nil
}

// reserveItemsForOrder reserves every line of an order in list order. The
// first failing line stops the loop; lines reserved before it stay reserved
// and all_items_reserved is not published.
func (s *InventoryService) reserveItemsForOrder(ctx context.Context, e event.OrderCreated) {
	s.audit.Log("RESERVATION STARTED", e.Username,
		fmt.Sprintf("order %s, %d item(s)", e.OrderID, len(e.Items)))

	for _, item := range e.Items {
		err := s.reserveItem(ctx, command.ReserveItem{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			OrderID:  e.OrderID,
			Username: e.Username,
		})
		if err != nil {
			s.audit.Log("RESERVATION FAILED", e.Username,
				fmt.Sprintf("order %s: %s: %v", e.OrderID, item.ItemName, err))
			return
		}
	}

	s.audit.Log("RESERVATION COMPLETE", e.Username, "order "+e.OrderID)
	s.bus.Publish(ctx, event.AllItemsReserved{
		OrderID:  e.OrderID,
		Username: e.Username,
	})
}

// releaseItem returns previously reserved stock to the shelf.
func (s *InventoryService) releaseItem(ctx context.Context, cmd command.ReleaseItem) error {
	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return err
	}

	item, exists := inventory[cmd.ItemName]
	if !exists {
		return ErrItemNotFound
	}

	item.Quantity += cmd.Quantity
	inventory[cmd.ItemName] = item

	if err := s.store.Save(ctx, store.Inventory, inventory); err != nil {
		return err
	}
	s.audit.Log("RELEASED", "", fmt.Sprintf("%s x%d", cmd.ItemName, cmd.Quantity))
	return nil
}
