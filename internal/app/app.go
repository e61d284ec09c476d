// Package app assembles the bus, the services and the subscription table
// into a runnable core, shared by the API server and the console.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/redis/go-redis/v9"

	"wareflow/internal/audit"
	"wareflow/internal/bus"
	"wareflow/internal/config"
	"wareflow/internal/event"
	"wareflow/internal/service"
	"wareflow/internal/store"
)

// App holds the wired core. The services are exposed for direct calls where
// an outer surface needs a return value (login, order id); everything else
// goes through Send.
type App struct {
	Bus       *bus.Bus
	Store     store.Store
	Audit     *audit.Logger
	Auth      *service.AuthService
	Order     *service.OrderService
	Inventory *service.InventoryService

	mu sync.Mutex
}

// New wires the services onto a fresh bus and installs the subscription
// table. Notifications are rendered to notifyOut.
func New(st store.Store, log *audit.Logger, notifyOut io.Writer) *App {
	b := bus.New(log)

	auth := service.NewAuthService(b, st, log)
	verify := service.NewVerificationService(b, log)
	profile := service.NewProfileService(b, st, log)
	order := service.NewOrderService(b, st, log)
	payment := service.NewPaymentService(b, st, log)
	delivery := service.NewDeliveryService(b, st, log)
	inventory := service.NewInventoryService(b, st, log)
	purchase := service.NewPurchaseService(b, st, log)
	notify := service.NewNotificationService(notifyOut, log)

	b.Register(service.AuthName, auth)
	b.Register(service.VerifyName, verify)
	b.Register(service.ProfileName, profile)
	b.Register(service.OrderName, order)
	b.Register(service.PaymentName, payment)
	b.Register(service.DeliveryName, delivery)
	b.Register(service.InventoryName, inventory)
	b.Register(service.PurchaseName, purchase)
	b.Register(service.NotifyName, notify)

	// The choreography lives in this table. order_created deliberately fans
	// out to inventory before payment, and payment is not gated on
	// reservation success.
	b.Subscribe(event.TypeUserRegistered, service.VerifyName)
	b.Subscribe(event.TypeEmailVerified, service.ProfileName)
	b.Subscribe(event.TypeProfileCreated, service.NotifyName)

	b.Subscribe(event.TypeOrderCreated, service.InventoryName)
	b.Subscribe(event.TypeOrderCreated, service.PaymentName)

	b.Subscribe(event.TypeAllItemsReserved, service.NotifyName)
	b.Subscribe(event.TypeItemReserved, service.NotifyName)

	b.Subscribe(event.TypePaymentDone, service.NotifyName)
	b.Subscribe(event.TypePaymentDone, service.DeliveryName)

	b.Subscribe(event.TypeDeliveryScheduled, service.NotifyName)

	b.Subscribe(event.TypeItemAdded, service.NotifyName)
	b.Subscribe(event.TypeItemUpdated, service.NotifyName)
	b.Subscribe(event.TypeItemRemoved, service.NotifyName)

	return &App{
		Bus:       b,
		Store:     st,
		Audit:     log,
		Auth:      auth,
		Order:     order,
		Inventory: inventory,
	}
}

// Send dispatches one command and every cascading publish it triggers,
// serialized under a mutex. The bus itself is single-threaded; this is the
// external mutual-exclusion layer the HTTP surface needs.
func (a *App) Send(ctx context.Context, handlerName string, msg bus.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Bus.Send(ctx, handlerName, msg)
}

// Serialize runs fn under the same mutex as Send, for direct service calls
// from concurrent surfaces.
func (a *App) Serialize(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn()
}

// OpenStore creates the document store backend selected by the config.
func OpenStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.SQLitePath)
	case "mysql":
		return store.NewMySQLStore(cfg.Store.MySQLDSN())
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return store.NewRedisStore(client), nil
	case "jsonfile":
		return store.NewJSONFileStore(cfg.Store.DataDir)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
