package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"wareflow/internal/app"
	"wareflow/internal/audit"
	"wareflow/internal/cache"
	"wareflow/internal/config"
	"wareflow/internal/handler"
	"wareflow/internal/middleware"
	"wareflow/internal/router"
	"wareflow/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting wareflow API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Document store
	st, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	log.Printf("Store initialized (%s)", cfg.Store.Type)

	// Audit log, mirrored to stdout and the log file
	auditLog, err := audit.NewWithFile(os.Stdout, cfg.Audit.FilePath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer auditLog.Close()

	// Core: bus, services, subscription table
	core := app.New(st, auditLog, os.Stdout)

	// Session cache
	var sessionCache cache.Cache
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis for sessions: %v", err)
		}
		sessionCache = cache.NewRedisCache(client)
		log.Println("Redis session cache initialized")
	default:
		memCache := cache.NewMemoryCache()
		defer memCache.Stop()
		sessionCache = memCache
	}
	sessions := service.NewSessionService(sessionCache, cfg.Session.TTL)

	// Handlers and router
	r := router.New(router.Config{
		HealthHandler:    handler.NewHealthHandler(),
		AuthHandler:      handler.NewAuthHandler(core, sessions),
		InventoryHandler: handler.NewInventoryHandler(core),
		OrderHandler:     handler.NewOrderHandler(core),
		AuthMiddleware:   middleware.NewAuthMiddleware(sessions),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
