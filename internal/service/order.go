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
	"wareflow/pkg/uid"
)

// OrderService creates orders. The total is a snapshot of the inventory
// prices at creation time; items unknown to the inventory contribute
// nothing to it.
type OrderService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(b bus.Publisher, st store.Store, log *audit.Logger) *OrderService {
	return &OrderService{bus: b, store: st, audit: log}
}

// Handle dispatches the create_order command.
func (s *OrderService) Handle(ctx context.Context, msg bus.Message) error {
	if m, ok := msg.(command.CreateOrder); ok {
		_, err := s.CreateOrder(ctx, m)
		return err
	}
	return nil
}

// CreateOrder persists a new order in the created state and publishes
// order_created, which triggers reservation and payment. The returned order
// id is a direct-caller convenience.
func (s *OrderService) CreateOrder(ctx context.Context, cmd command.CreateOrder) (string, error) {
	if len(cmd.Items) == 0 {
		s.audit.Log("ORDER CREATION FAILED", cmd.Username, "item list is empty")
		return "", ErrEmptyOrder
	}

	orderID := uid.Short()

	inventory := make(map[string]model.InventoryItem)
	if err := s.store.Load(ctx, store.Inventory, &inventory); err != nil {
		return "", err
	}

	var total float64
	for _, item := range cmd.Items {
		if stock, ok := inventory[item.ItemName]; ok {
			total += stock.Price * float64(item.Quantity)
		}
	}

	orders := make(map[string]model.Order)
	if err := s.store.Load(ctx, store.Orders, &orders); err != nil {
		return "", err
	}
	orders[orderID] = model.Order{
		Username: cmd.Username,
		Items:    cmd.Items,
		Status:   model.OrderStatusCreated,
		Total:    total,
	}
	if err := s.store.Save(ctx, store.Orders, orders); err != nil {
		return "", err
	}

	s.audit.Log("ORDER CREATED", cmd.Username, fmt.Sprintf("id: %s, total: %.2f", orderID, total))

	s.bus.Publish(ctx, event.OrderCreated{
		OrderID:  orderID,
		Username: cmd.Username,
		Items:    cmd.Items,
		Total:    total,
	})
	return orderID, nil
}

// GetOrder reads one order by id for direct callers. Missing orders are a
// caller error here, unlike inside the event chain where they are skipped.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	orders := make(map[string]model.Order)
	if err := s.store.Load(ctx, store.Orders, &orders); err != nil {
		return model.Order{}, err
	}

	order, exists := orders[orderID]
	if !exists {
		return model.Order{}, ErrOrderNotFound
	}
	return order, nil
}
