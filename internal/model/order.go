package model

// Order status values. Status only moves forward:
// created -> paid -> in_delivery.
const (
	OrderStatusCreated    = "created"
	OrderStatusPaid       = "paid"
	OrderStatusInDelivery = "in_delivery"
)

var statusRank = map[string]int{
	OrderStatusCreated:    0,
	OrderStatusPaid:       1,
	OrderStatusInDelivery: 2,
}

// StatusAdvances reports whether moving from current to next follows the
// forward-only progression. Re-applying the current status or stepping
// backward does not advance.
func StatusAdvances(current, next string) bool {
	return statusRank[next] > statusRank[current]
}

// Order represents a customer order, keyed by a short generated order id in
// the orders collection. Total is a price snapshot computed at creation time
// from the inventory prices in effect, not recomputed later. Orders are
// never deleted.
type Order struct {
	Username string      `json:"username"`
	Items    []OrderItem `json:"items"`
	Status   string      `json:"status"`
	Total    float64     `json:"total"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}
