package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/event"
)

// NotificationService is a pure terminal sink in the event graph: it renders
// a notification for the events it subscribes to and never mutates state or
// publishes further events.
type NotificationService struct {
	out   io.Writer
	audit *audit.Logger
}

// NewNotificationService creates a notification service writing to out.
func NewNotificationService(out io.Writer, log *audit.Logger) *NotificationService {
	return &NotificationService{out: out, audit: log}
}

// Handle renders notifications for the subscribed event types. Anything
// else is ignored.
func (s *NotificationService) Handle(ctx context.Context, msg bus.Message) error {
	switch m := msg.(type) {
	case event.ProfileCreated:
		s.notify(m.EventType(), m.Username, "", m.Message)
	case event.DeliveryScheduled:
		s.notify(m.EventType(), m.Username, m.OrderID, m.Message)
	case event.ItemAdded:
		s.notify(m.EventType(), m.Username, "", m.Message)
	case event.ItemReserved:
		s.notify(m.EventType(), m.Username, m.OrderID, m.Message)
	case event.ItemUpdated:
		s.notify(m.EventType(), m.Username, "", m.Message)
	case event.ItemRemoved:
		s.notify(m.EventType(), m.Username, "", m.Message)
	case event.PaymentDone:
		s.notify(m.EventType(), m.Username, m.OrderID, "")
	case event.AllItemsReserved:
		s.notify(m.EventType(), m.Username, m.OrderID, "")
	}
	return nil
}

func (s *NotificationService) notify(eventType, username, orderID, message string) {
	if username == "" {
		username = "system"
	}
	if message == "" {
		message = "system notification"
	}

	s.audit.Log("NOTIFICATION", username, eventType+": "+message)

	separator := strings.Repeat("=", 60)
	fmt.Fprintln(s.out, separator)
	fmt.Fprintf(s.out, "NOTIFICATION for %s\n", username)
	fmt.Fprintf(s.out, "Event: %s\n", eventType)
	if orderID != "" {
		fmt.Fprintf(s.out, "Order: %s\n", orderID)
	}
	fmt.Fprintf(s.out, "Message: %s\n", message)
	fmt.Fprintln(s.out, separator)
}
