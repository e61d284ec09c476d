package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wareflow/internal/app"
	"wareflow/internal/command"
	"wareflow/internal/middleware"
	"wareflow/internal/model"
	"wareflow/internal/service"
	"wareflow/internal/store"
	"wareflow/pkg/apierror"
	"wareflow/pkg/response"
)

// InventoryHandler exposes the stock catalog and the admin item mutations.
// The role check happens in the core against the persisted user record; the
// session only names the actor.
type InventoryHandler struct {
	app *app.App
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(a *app.App) *InventoryHandler {
	return &InventoryHandler{app: a}
}

// ItemView is the public shape of one stock item.
type ItemView struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Reserved int     `json:"reserved"`
}

// List handles GET /inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	inventory := make(map[string]model.InventoryItem)
	err := h.app.Serialize(func() error {
		return h.app.Store.Load(r.Context(), store.Inventory, &inventory)
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to load inventory"))
		return
	}

	items := make([]ItemView, 0, len(inventory))
	for name, item := range inventory {
		reserved := 0
		for _, res := range item.Reserved {
			reserved += res.Quantity
		}
		items = append(items, ItemView{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Reserved: reserved,
		})
	}

	response.OK(w, items)
}

// AddItemRequest represents the request body for adding a stock item.
type AddItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// AddItem handles POST /items
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		response.Error(w, apierror.BadRequest("name is required"))
		return
	}

	err := h.app.Send(r.Context(), service.PurchaseName, command.AddItem{
		Username: session.Username,
		ItemName: req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.Created(w, map[string]string{"name": req.Name})
}

// UpdateItemRequest represents the request body for a partial item update.
type UpdateItemRequest struct {
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// UpdateItem handles PUT /items/{name}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	name := chi.URLParam(r, "name")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Quantity == nil && req.Price == nil {
		response.Error(w, apierror.BadRequest("nothing to update"))
		return
	}

	err := h.app.Send(r.Context(), service.PurchaseName, command.UpdateItem{
		Username: session.Username,
		ItemName: name,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, map[string]string{"name": name})
}

// RemoveItem handles DELETE /items/{name}
func (h *InventoryHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	name := chi.URLParam(r, "name")

	err := h.app.Send(r.Context(), service.PurchaseName, command.RemoveItem{
		Username: session.Username,
		ItemName: name,
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.NoContent(w)
}
