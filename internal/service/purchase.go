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

// PurchaseService performs administrative stock mutations. Every mutation
// re-validates the actor's role against the persisted user record at call
// time; a role claimed by the calling context is never trusted.
type PurchaseService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(b bus.Publisher, st store.Store, log *audit.Logger) *PurchaseService {
	return &PurchaseService{bus: b, store: st, audit: log}
}

// Handle dispatches the administrative stock commands.
func (s *PurchaseService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.AddItem:
		return s.addItem(ctx, m)
	case command.UpdateItem:
		return s.updateItem(ctx, m)
	case command.RemoveItem:
		return s.removeItem(ctx, m)
	}
	return nil
}

// checkAdmin verifies the persisted role of the actor.
func (s *PurchaseService) checkAdmin(ctx context.Context, username string) bool {
	users := make(map[string]model.User)
	if err := s.store.Load(ctx, store.Users, &users); err != nil {
		return false
	}

	user, exists := users[username]
	if !exists || user.Role != model.RoleAdmin {
		s.audit.Log("ACCESS DENIED", username, "admin role required")
		return false
	}
	return true
}

// addItem validates in a fixed order: role, then quantity and price, then
// duplicate name. Nothing is persisted unless every check passes.
func (s *PurchaseService) addItem(ctx context.Context, cmd command.AddItem) error {
	if !s.checkAdmin(ctx, cmd.Username) {
		return ErrAdminRequired
	}

	if cmd.Quantity <= 0 {
		s.audit.Log("VALIDATION FAILED", cmd.Username, "quantity must be positive")
		return ErrInvalidQuantity
	}
	if cmd.Price <= 0 {
		s.audit.Log("VALIDATION FAILED", cmd.Username, "price must be positive")
		return ErrInvalidPrice
	}

	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return err
	}

	if _, exists := inventory[cmd.ItemName]; exists {
		s.audit.Log("ADD FAILED", cmd.Username, fmt.Sprintf("item '%s' already exists", cmd.ItemName))
		return ErrItemExists
	}

	inventory[cmd.ItemName] = model.InventoryItem{
		Quantity: cmd.Quantity,
		Price:    cmd.Price,
		Reserved: []model.Reservation{},
	}

	if err := s.store.Save(ctx, store.Inventory, inventory); err != nil {
		return err
	}
	s.audit.Log("ITEM ADDED", cmd.Username,
		fmt.Sprintf("%s: %d at %.2f", cmd.ItemName, cmd.Quantity, cmd.Price))

	s.bus.Publish(ctx, event.ItemAdded{
		Username: cmd.Username,
		ItemName: cmd.ItemName,
		Quantity: cmd.Quantity,
		Price:    cmd.Price,
		Message:  fmt.Sprintf("item added to stock: %s (%d)", cmd.ItemName, cmd.Quantity),
	})
	return nil
}

// updateItem applies a partial update. Quantity and price may be provided
// independently, but any provided value must be positive or the whole update
// is rejected with no partial application.
func (s *PurchaseService) updateItem(ctx context.Context, cmd command.UpdateItem) error {
	if !s.checkAdmin(ctx, cmd.Username) {
		return ErrAdminRequired
	}

	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return err
	}

	item, exists := inventory[cmd.ItemName]
	if !exists {
		s.audit.Log("UPDATE FAILED", cmd.Username, fmt.Sprintf("item '%s' not found", cmd.ItemName))
		return ErrItemNotFound
	}

	if cmd.Quantity != nil && *cmd.Quantity <= 0 {
		s.audit.Log("VALIDATION FAILED", cmd.Username, "quantity must be positive")
		return ErrInvalidQuantity
	}
	if cmd.Price != nil && *cmd.Price <= 0 {
		s.audit.Log("VALIDATION FAILED", cmd.Username, "price must be positive")
		return ErrInvalidPrice
	}

	if cmd.Quantity != nil {
		item.Quantity = *cmd.Quantity
	}
	if cmd.Price != nil {
		item.Price = *cmd.Price
	}
	inventory[cmd.ItemName] = item

	if err := s.store.Save(ctx, store.Inventory, inventory); err != nil {
		return err
	}
	s.audit.Log("ITEM UPDATED", cmd.Username, cmd.ItemName)

	s.bus.Publish(ctx, event.ItemUpdated{
		Username: cmd.Username,
		ItemName: cmd.ItemName,
		Message:  fmt.Sprintf("item '%s' updated", cmd.ItemName),
	})
	return nil
}

// removeItem deletes the item unconditionally if present. Outstanding
// reservations are not reconciled.
func (s *PurchaseService) removeItem(ctx context.Context, cmd command.RemoveItem) error {
	if !s.checkAdmin(ctx, cmd.Username) {
		return ErrAdminRequired
	}

	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return err
	}

	if _, exists := inventory[cmd.ItemName]; !exists {
		s.audit.Log("REMOVE FAILED", cmd.Username, fmt.Sprintf("item '%s' not found", cmd.ItemName))
		return ErrItemNotFound
	}

	delete(inventory, cmd.ItemName)
	if err := s.store.Save(ctx, store.Inventory, inventory); err != nil {
		return err
	}
	s.audit.Log("ITEM REMOVED", cmd.Username, cmd.ItemName)

	s.bus.Publish(ctx, event.ItemRemoved{
		Username: cmd.Username,
		ItemName: cmd.ItemName,
		Message:  fmt.Sprintf("item '%s' removed", cmd.ItemName),
	})
	return nil
}
