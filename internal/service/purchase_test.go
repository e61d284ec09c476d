package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/audit"
	"wareflow/internal/command"
	"wareflow/internal/event"
	"wareflow/internal/model"
	"wareflow/internal/service"
	"wareflow/internal/store"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e event.Event) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

func seedUsers(t *testing.T, st store.Store) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), store.Users, map[string]model.User{
		"admin": {Password: "pw", Role: model.RoleAdmin},
		"carol": {Password: "pw", Role: model.RoleUser},
	}))
}

func newPurchase(t *testing.T) (*service.PurchaseService, *recordingPublisher, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	seedUsers(t, st)
	pub := &recordingPublisher{}
	return service.NewPurchaseService(pub, st, audit.Discard()), pub, st
}

func Test_AddItem_PersistsAndPublishes(t *testing.T) {
	purchase, pub, st := newPurchase(t)
	ctx := context.Background()

	err := purchase.Handle(ctx, command.AddItem{
		Username: "admin", ItemName: "Widget", Quantity: 10, Price: 5.0,
	})
	require.NoError(t, err)

	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.Equal(t, 10, inventory["Widget"].Quantity)
	assert.Equal(t, 5.0, inventory["Widget"].Price)
	assert.Empty(t, inventory["Widget"].Reserved)

	assert.Equal(t, []string{event.TypeItemAdded}, pub.types())
}

func Test_AddItem_NonAdminRejectedBeforeValidation(t *testing.T) {
	purchase, pub, st := newPurchase(t)
	ctx := context.Background()

	// Invalid quantity as well, but the role check fires first and nothing
	// is validated or persisted.
	err := purchase.Handle(ctx, command.AddItem{
		Username: "carol", ItemName: "Widget", Quantity: -1, Price: 5.0,
	})

	assert.ErrorIs(t, err, service.ErrAdminRequired)
	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.Empty(t, inventory)
	assert.Empty(t, pub.events)
}

func Test_AddItem_ClaimedRoleIsNotTrusted(t *testing.T) {
	purchase, _, _ := newPurchase(t)

	// Unknown actor, regardless of what any calling context claims.
	err := purchase.Handle(context.Background(), command.AddItem{
		Username: "mallory", ItemName: "Widget", Quantity: 1, Price: 1.0,
	})

	assert.ErrorIs(t, err, service.ErrAdminRequired)
}

func Test_AddItem_RejectsNonPositiveValues(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    float64
		wantErr  error
	}{
		{name: "zero_quantity", quantity: 0, price: 5.0, wantErr: service.ErrInvalidQuantity},
		{name: "negative_quantity", quantity: -3, price: 5.0, wantErr: service.ErrInvalidQuantity},
		{name: "zero_price", quantity: 3, price: 0, wantErr: service.ErrInvalidPrice},
		{name: "negative_price", quantity: 3, price: -1.5, wantErr: service.ErrInvalidPrice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			purchase, pub, st := newPurchase(t)
			ctx := context.Background()

			err := purchase.Handle(ctx, command.AddItem{
				Username: "admin", ItemName: "Widget", Quantity: tc.quantity, Price: tc.price,
			})

			assert.ErrorIs(t, err, tc.wantErr)
			inventory := make(map[string]model.InventoryItem)
			require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
			assert.Empty(t, inventory)
			assert.Empty(t, pub.events)
		})
	}
}

func Test_AddItem_DuplicateNameRejectedOnSecondCall(t *testing.T) {
	purchase, _, st := newPurchase(t)
	ctx := context.Background()

	require.NoError(t, purchase.Handle(ctx, command.AddItem{
		Username: "admin", ItemName: "Widget", Quantity: 10, Price: 5.0,
	}))
	err := purchase.Handle(ctx, command.AddItem{
		Username: "admin", ItemName: "Widget", Quantity: 99, Price: 1.0,
	})

	assert.ErrorIs(t, err, service.ErrItemExists)

	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.Equal(t, 10, inventory["Widget"].Quantity)
}

func Test_UpdateItem_PartialUpdateAppliesOnlyProvidedFields(t *testing.T) {
	purchase, _, st := newPurchase(t)
	ctx := context.Background()

	require.NoError(t, purchase.Handle(ctx, command.AddItem{
		Username: "admin", ItemName: "Widget", Quantity: 10, Price: 5.0,
	}))

	newPrice := 7.5
	require.NoError(t, purchase.Handle(ctx, command.UpdateItem{
		Username: "admin", ItemName: "Widget", Price: &newPrice,
	}))

	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.Equal(t, 10, inventory["Widget"].Quantity)
	assert.Equal(t, 7.5, inventory["Widget"].Price)
}

func Test_UpdateItem_InvalidValueRejectsWholeUpdate(t *testing.T) {
	purchase, _, st := newPurchase(t)
	ctx := context.Background()

	require.NoError(t, purchase.Handle(ctx, command.AddItem{
		Username: "admin", ItemName: "Widget", Quantity: 10, Price: 5.0,
	}))

	quantity := 20
	price := -1.0
	err := purchase.Handle(ctx, command.UpdateItem{
		Username: "admin", ItemName: "Widget", Quantity: &quantity, Price: &price,
	})

	assert.ErrorIs(t, err, service.ErrInvalidPrice)

	// The valid quantity was not applied either.
	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.Equal(t, 10, inventory["Widget"].Quantity)
	assert.Equal(t, 5.0, inventory["Widget"].Price)
}

func Test_RemoveItem_DeletesWithoutReservationCheck(t *testing.T) {
	purchase, pub, st := newPurchase(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, store.Inventory, map[string]model.InventoryItem{
		"Widget": {Quantity: 5, Price: 5.0, Reserved: []model.Reservation{{OrderID: "abc", Quantity: 2}}},
	}))

	require.NoError(t, purchase.Handle(ctx, command.RemoveItem{
		Username: "admin", ItemName: "Widget",
	}))

	inventory := make(map[string]model.InventoryItem)
	require.NoError(t, st.Load(ctx, store.Inventory, &inventory))
	assert.NotContains(t, inventory, "Widget")
	assert.Contains(t, pub.types(), event.TypeItemRemoved)
}

func Test_RemoveItem_UnknownItemReported(t *testing.T) {
	purchase, pub, _ := newPurchase(t)

	err := purchase.Handle(context.Background(), command.RemoveItem{
		Username: "admin", ItemName: "Ghost",
	})

	assert.ErrorIs(t, err, service.ErrItemNotFound)
	assert.Empty(t, pub.events)
}
