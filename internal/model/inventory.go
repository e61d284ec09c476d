package model

// InventoryItem represents stock for a single item, keyed by item name in
// the inventory collection. Quantity is the currently available stock; a
// reservation deducts from Quantity immediately and appends a Reservation
// record for traceability. There is no separate "available" counter.
type InventoryItem struct {
	Quantity int           `json:"quantity"`
	Price    float64       `json:"price"`
	Reserved []Reservation `json:"reserved"`
}

// Reservation records a stock deduction attributed to an order.
type Reservation struct {
	OrderID  string `json:"order_id"`
	Quantity int    `json:"quantity"`
}
