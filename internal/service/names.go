// Package service contains the bus-driven business logic units. Each
// service is registered on the bus under a fixed name, reacts to the typed
// commands and events it understands through a type switch, mutates the
// document store, and may publish follow-on events. Failures are absorbed:
// a service that cannot complete logs the reason, skips its success event
// and returns a sentinel error for direct callers only.
package service

// Registered bus names for the services.
const (
	AuthName      = "auth"
	VerifyName    = "verify"
	ProfileName   = "profile"
	OrderName     = "order"
	PaymentName   = "payment"
	DeliveryName  = "delivery"
	InventoryName = "inventory"
	PurchaseName  = "purchase"
	NotifyName    = "notify"
)
