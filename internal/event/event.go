// Package event defines the domain events broadcast over the bus. Each event
// is its own struct carrying only the fields relevant to it, with the wire
// name exposed through EventType. Events are plain values: every subscriber
// receives its own shallow copy, so mutating a delivered event never leaks
// into another subscriber's copy (nested slices are still shared).
package event

// Event is a named fact broadcast to zero or more interested handlers.
type Event interface {
	EventType() string
}

// Event type identifiers, used as subscription keys on the bus.
const (
	TypeUserRegistered    = "user_registered"
	TypeUserLoggedIn      = "user_logged_in"
	TypeEmailVerified     = "email_verified"
	TypeProfileCreated    = "profile_created"
	TypeOrderCreated      = "order_created"
	TypeItemReserved      = "item_reserved"
	TypeAllItemsReserved  = "all_items_reserved"
	TypePaymentDone       = "payment_done"
	TypeDeliveryScheduled = "delivery_scheduled"
	TypeItemAdded         = "item_added"
	TypeItemUpdated       = "item_updated"
	TypeItemRemoved       = "item_removed"
)
