package handler

import (
	"encoding/json"
	"net/http"

	"wareflow/internal/app"
	"wareflow/internal/command"
	"wareflow/internal/model"
	"wareflow/internal/service"
	"wareflow/pkg/apierror"
	"wareflow/pkg/response"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	app      *app.App
	sessions *service.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(a *app.App, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{app: a, sessions: sessions}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}
	if req.Password == "" {
		response.Error(w, apierror.BadRequest("password is required"))
		return
	}

	err := h.app.Serialize(func() error {
		return h.app.Auth.Register(r.Context(), command.Register{
			Username: req.Username,
			Password: req.Password,
			Email:    req.Email,
			Role:     req.Role,
		})
	})
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.Created(w, map[string]string{"username": req.Username})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		response.Error(w, apierror.BadRequest("username and password are required"))
		return
	}

	var user model.User
	err := h.app.Serialize(func() error {
		var loginErr error
		user, loginErr = h.app.Auth.Login(r.Context(), command.Login{
			Username: req.Username,
			Password: req.Password,
		})
		return loginErr
	})
	if err != nil {
		response.Error(w, apierror.Unauthorized("invalid username or password"))
		return
	}

	token, err := h.sessions.Create(r.Context(), req.Username, user.Role)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to create session"))
		return
	}

	response.OK(w, LoginResponse{
		Token:    token,
		Username: req.Username,
		Role:     user.Role,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke session"))
		return
	}

	response.OK(w, map[string]string{"status": "logged out"})
}
