// Package command defines the typed commands that outer surfaces send
// directly to a named service on the bus. Unlike events, a command targets
// exactly one handler and is never broadcast.
package command

import "wareflow/internal/model"

// Command is a payload sent directly to one named handler.
type Command interface {
	CommandType() string
}

// Register creates a new user account.
type Register struct {
	Username string
	Password string
	Role     string
	Email    string
}

func (c Register) CommandType() string { return "register" }

// Login authenticates a user against the persisted record.
type Login struct {
	Username string
	Password string
}

func (c Login) CommandType() string { return "login" }

// VerifyEmail triggers the (simulated) email verification directly.
type VerifyEmail struct {
	Username string
	Email    string
	Role     string
}

func (c VerifyEmail) CommandType() string { return "verify_email" }

// CreateProfile creates the user's profile directly, bypassing verification.
type CreateProfile struct {
	Username string
}

func (c CreateProfile) CommandType() string { return "create_profile" }

// UpdateProfile applies arbitrary field updates to a user's profile record.
type UpdateProfile struct {
	Username string
	Updates  map[string]any
}

func (c UpdateProfile) CommandType() string { return "update_profile" }

// CreateOrder creates an order for the given user from a non-empty item list.
type CreateOrder struct {
	Username string
	Items    []model.OrderItem
}

func (c CreateOrder) CommandType() string { return "create_order" }

// ProcessPayment marks an order paid directly, outside the event chain.
type ProcessPayment struct {
	OrderID  string
	Username string
	Total    float64
}

func (c ProcessPayment) CommandType() string { return "process_payment" }

// ScheduleDelivery moves an order to in_delivery directly.
type ScheduleDelivery struct {
	OrderID  string
	Username string
}

func (c ScheduleDelivery) CommandType() string { return "schedule_delivery" }

// CheckItem reports whether the requested quantity of an item is in stock.
type CheckItem struct {
	ItemName string
	Quantity int
}

func (c CheckItem) CommandType() string { return "check_item" }

// ReserveItem reserves a single item for an order.
type ReserveItem struct {
	ItemName string
	Quantity int
	OrderID  string
	Username string
}

func (c ReserveItem) CommandType() string { return "reserve_item" }

// ReleaseItem returns previously reserved stock to the shelf.
type ReleaseItem struct {
	ItemName string
	Quantity int
}

func (c ReleaseItem) CommandType() string { return "release_item" }

// AddItem adds a new item to stock. Admin only.
type AddItem struct {
	Username string
	ItemName string
	Quantity int
	Price    float64
}

func (c AddItem) CommandType() string { return "add_item" }

// UpdateItem changes an item's quantity and/or price. Admin only. Nil fields
// are left untouched; a non-positive provided value rejects the whole update.
type UpdateItem struct {
	Username string
	ItemName string
	Quantity *int
	Price    *float64
}

func (c UpdateItem) CommandType() string { return "update_item" }

// RemoveItem deletes an item from stock. Admin only. Outstanding
// reservations are not reconciled.
type RemoveItem struct {
	Username string
	ItemName string
}

func (c RemoveItem) CommandType() string { return "remove_item" }
