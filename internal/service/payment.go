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

// PaymentService marks orders as paid. There is no failure path: payment
// always succeeds, independent of whether reservation did. It is triggered
// by order_created directly, not gated on all_items_reserved.
type PaymentService struct {
	bus   bus.Publisher
	store store.Store
	audit *audit.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(b bus.Publisher, st store.Store, log *audit.Logger) *PaymentService {
	return &PaymentService{bus: b, store: st, audit: log}
}

// Handle dispatches the process_payment command and the order_created event.
func (s *PaymentService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case command.ProcessPayment:
		return s.processPayment(ctx, m.OrderID, m.Username, m.Total)
	case event.OrderCreated:
		return s.processPayment(ctx, m.OrderID, m.Username, m.Total)
	}
	return nil
}

func (s *PaymentService) processPayment(ctx context.Context, orderID, username string, total float64) error {
	s.audit.Log("PAYMENT PROCESSING", username, fmt.Sprintf("order %s, total: %.2f", orderID, total))

	orders := make(map[string]model.Order)
	if err := s.store.Load(ctx, store.Orders, &orders); err != nil {
		return err
	}
	// Status never moves backward: re-running payment on a delivered order
	// leaves it in_delivery.
	if order, exists := orders[orderID]; exists && model.StatusAdvances(order.Status, model.OrderStatusPaid) {
		order.Status = model.OrderStatusPaid
		orders[orderID] = order
		if err := s.store.Save(ctx, store.Orders, orders); err != nil {
			return err
		}
	}

	s.bus.Publish(ctx, event.PaymentDone{
		OrderID:  orderID,
		Username: username,
		Total:    total,
	})
	return nil
}
