package router

import (
	"net/http"

	"wareflow/internal/handler"
	"wareflow/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler    *handler.HealthHandler
	AuthHandler      *handler.AuthHandler
	InventoryHandler *handler.InventoryHandler
	OrderHandler     *handler.OrderHandler
	AuthMiddleware   func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes). RequestID runs first
	// so the recovery and logging lines can carry the id.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// PUBLIC routes (no auth required)
		r.Get("/health", cfg.HealthHandler.Health)
		r.Get("/inventory", cfg.InventoryHandler.List)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		// AUTHENTICATED routes
		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware)
			}

			r.Route("/items", func(r chi.Router) {
				r.Post("/", cfg.InventoryHandler.AddItem)
				r.Put("/{name}", cfg.InventoryHandler.UpdateItem)
				r.Delete("/{name}", cfg.InventoryHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", cfg.OrderHandler.Create)
				r.Get("/{id}", cfg.OrderHandler.Get)
			})
		})
	})

	return r
}
