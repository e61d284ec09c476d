package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wareflow/internal/app"
	"wareflow/internal/command"
	"wareflow/internal/middleware"
	"wareflow/internal/model"
	"wareflow/pkg/apierror"
	"wareflow/pkg/response"
)

// OrderHandler creates and reads orders. Creating an order runs the whole
// fulfillment chain synchronously before the response is written.
type OrderHandler struct {
	app *app.App
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(a *app.App) *OrderHandler {
	return &OrderHandler{app: a}
}

// CreateOrderRequest represents the request body for order creation.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents one requested line item.
type OrderItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderView is the public shape of an order.
type OrderView struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Items    []model.OrderItem `json:"items"`
	Status   string            `json:"status"`
	Total    float64           `json:"total"`
}

// Create handles POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ItemName: item.Name,
			Quantity: item.Quantity,
		})
	}

	var orderID string
	err := h.app.Serialize(func() error {
		var createErr error
		orderID, createErr = h.app.Order.CreateOrder(r.Context(), command.CreateOrder{
			Username: session.Username,
			Items:    items,
		})
		return createErr
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	order, err := h.loadOrder(r, orderID)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to load order"))
		return
	}

	response.Created(w, order)
}

// Get handles GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	orderID := chi.URLParam(r, "id")

	order, err := h.loadOrder(r, orderID)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	// Orders are visible to their owner and to admins.
	if order.Username != session.Username && session.Role != model.RoleAdmin {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	response.OK(w, order)
}

// loadOrder reads one order through the order service.
func (h *OrderHandler) loadOrder(r *http.Request, orderID string) (*OrderView, error) {
	var order model.Order
	err := h.app.Serialize(func() error {
		var getErr error
		order, getErr = h.app.Order.GetOrder(r.Context(), orderID)
		return getErr
	})
	if err != nil {
		return nil, err
	}

	return &OrderView{
		ID:       orderID,
		Username: order.Username,
		Items:    order.Items,
		Status:   order.Status,
		Total:    order.Total,
	}, nil
}
