package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/app"
	"wareflow/internal/audit"
	"wareflow/internal/cache"
	"wareflow/internal/handler"
	"wareflow/internal/middleware"
	"wareflow/internal/router"
	"wareflow/internal/service"
	"wareflow/internal/store"
)

// newTestServer wires the full HTTP stack over an in-memory store, the same
// way cmd/api does.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	core := app.New(store.NewMemoryStore(), audit.Discard(), io.Discard)

	sessionCache := cache.NewMemoryCache()
	t.Cleanup(sessionCache.Stop)
	sessions := service.NewSessionService(sessionCache, time.Hour)

	r := router.New(router.Config{
		HealthHandler:    handler.NewHealthHandler(),
		AuthHandler:      handler.NewAuthHandler(core, sessions),
		InventoryHandler: handler.NewInventoryHandler(core),
		OrderHandler:     handler.NewOrderHandler(core),
		AuthMiddleware:   middleware.NewAuthMiddleware(sessions),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

// register and login, returning the session token.
func loginAs(t *testing.T, srv *httptest.Server, username, role string) string {
	t.Helper()

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"password": "secret",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func Test_API_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
}

func Test_API_RegisterDuplicateConflicts(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func Test_API_LoginWrongPasswordUnauthorized(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "alice", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_API_ItemsRequireSession(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/items", "", map[string]any{
		"name": "Widget", "quantity": 10, "price": 5.0,
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_API_NonAdminCannotAddItems(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "carol", "user")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/items", token, map[string]any{
		"name": "Widget", "quantity": 10, "price": 5.0,
	})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func Test_API_OrderFulfillmentOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	admin := loginAs(t, srv, "boss", "admin")
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/items", admin, map[string]any{
		"name": "Widget", "quantity": 10, "price": 5.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	buyer := loginAs(t, srv, "carol", "user")
	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/orders", buyer, map[string]any{
		"items": []map[string]any{{"name": "Widget", "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	order := body["data"].(map[string]any)
	orderID := order["id"].(string)
	require.NotEmpty(t, orderID)

	// The whole chain ran before the response: paid, then in delivery.
	assert.Equal(t, "in_delivery", order["status"])
	assert.Equal(t, 15.0, order["total"])

	// Stock was deducted.
	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/inventory", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	widget := items[0].(map[string]any)
	assert.Equal(t, float64(7), widget["quantity"])
	assert.Equal(t, float64(3), widget["reserved"])

	// Owner can read the order back.
	resp, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", orderID), buyer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_API_OrderHiddenFromOtherUsers(t *testing.T) {
	srv := newTestServer(t)

	admin := loginAs(t, srv, "boss", "admin")
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/items", admin, map[string]any{
		"name": "Widget", "quantity": 10, "price": 5.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	buyer := loginAs(t, srv, "carol", "user")
	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/orders", buyer, map[string]any{
		"items": []map[string]any{{"name": "Widget", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := body["data"].(map[string]any)["id"].(string)

	other := loginAs(t, srv, "mallory", "user")
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/v1/orders/"+orderID, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins can see every order.
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/v1/orders/"+orderID, admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_API_UnknownOrderNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "carol", "user")

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/orders/deadbeef", token, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_API_LogoutRevokesSession(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "carol", "user")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items": []map[string]any{{"name": "Widget", "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_API_EmptyOrderRejected(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "carol", "user")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items": []map[string]any{},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
