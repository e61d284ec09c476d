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

// DeliveryService schedules deliveries for paid orders.
type DeliveryService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(b bus.Publisher, st store.Store, log *audit.Logger) *DeliveryService {
	return &DeliveryService{bus: b, store: st, audit: log}
}

// Handle dispatches the schedule_delivery command and the payment_done event.
func (s *DeliveryService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.ScheduleDelivery:
		return s.scheduleDelivery(ctx, m.OrderID, m.Username)
	case event.PaymentDone:
		return s.scheduleDelivery(ctx, m.OrderID, m.Username)
	}
	return nil
}

func (s *DeliveryService) scheduleDelivery(ctx context.Context, orderID, username string) error {
	s.audit.Log("DELIVERY SCHEDULING", username, "order "+orderID)

	orders := make(map[string]model.Order)
	if err := s.store.Load(ctx, store.Orders, &orders); err != nil {
		return err
	}
	if order, exists := orders[orderID]; exists && model.StatusAdvances(order.Status, model.OrderStatusInDelivery) {
		order.Status = model.OrderStatusInDelivery
		orders[orderID] = order
		if err := s.store.Save(ctx, store.Orders, orders); err != nil {
			return err
		}
	}

	s.bus.Publish(ctx, event.DeliveryScheduled{
		OrderID:  orderID,
		Username: username,
		Message:  fmt.Sprintf("order %s is out for delivery", orderID),
	})
	return nil
}
