package event

import "wareflow/internal/model"

// UserRegistered is published after a new account has been persisted.
type UserRegistered struct {
	Username string
	Email    string
	Role     string
}

func (e UserRegistered) EventType() string { return TypeUserRegistered }

// UserLoggedIn is published after a successful login.
type UserLoggedIn struct {
	Username string
	Role     string
}

func (e UserLoggedIn) EventType() string { return TypeUserLoggedIn }

// EmailVerified is published once the (simulated) email check passes.
type EmailVerified struct {
	Username string
	Email    string
	Role     string
}

func (e EmailVerified) EventType() string { return TypeEmailVerified }

// ProfileCreated is published the first time a user's profile is created.
type ProfileCreated struct {
	Username string
	Message  string
}

func (e ProfileCreated) EventType() string { return TypeProfileCreated }

// OrderCreated is published after an order record has been persisted in the
// created state. It fans out to inventory reservation and payment, which are
// independent of each other.
type OrderCreated struct {
	OrderID  string
	Username string
	Items    []model.OrderItem
	Total    float64
}

func (e OrderCreated) EventType() string { return TypeOrderCreated }

// ItemReserved is published for each successfully reserved order line.
type ItemReserved struct {
	OrderID  string
	Username string
	ItemName string
	Quantity int
	Message  string
}

func (e ItemReserved) EventType() string { return TypeItemReserved }

// AllItemsReserved is published only when every line of an order was
// reserved. A partially reserved order publishes nothing.
type AllItemsReserved struct {
	OrderID  string
	Username string
}

func (e AllItemsReserved) EventType() string { return TypeAllItemsReserved }

// PaymentDone is published after an order has been marked paid.
type PaymentDone struct {
	OrderID  string
	Username string
	Total    float64
}

func (e PaymentDone) EventType() string { return TypePaymentDone }

// DeliveryScheduled is published after an order has moved to in_delivery.
type DeliveryScheduled struct {
	OrderID  string
	Username string
	Message  string
}

func (e DeliveryScheduled) EventType() string { return TypeDeliveryScheduled }

// ItemAdded is published after an admin adds a new item to stock.
type ItemAdded struct {
	Username string
	ItemName string
	Quantity int
	Price    float64
	Message  string
}

func (e ItemAdded) EventType() string { return TypeItemAdded }

// ItemUpdated is published after an admin changes an item's quantity or price.
type ItemUpdated struct {
	Username string
	ItemName string
	Message  string
}

func (e ItemUpdated) EventType() string { return TypeItemUpdated }

// ItemRemoved is published after an admin deletes an item from stock.
type ItemRemoved struct {
	Username string
	ItemName string
	Message  string
}

func (e ItemRemoved) EventType() string { return TypeItemRemoved }
