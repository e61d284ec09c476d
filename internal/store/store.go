// Package store provides the document store collaborator: whole-collection
// load and save of JSON documents. There are no partial updates, no
// transactions and no isolation between reads and writes; the services built
// on top perform read-modify-write sequences that are only safe under
// serialized access.
package store

import "context"

// Collection names used by the services.
const (
	Users     = "users"
	Inventory = "inventory"
	Orders    = "orders"
)

// Store loads and saves whole collections as JSON documents. Load decodes
// the collection into v and leaves v untouched if the collection does not
// exist yet. Save overwrites the full collection.
type Store interface {
	Load(ctx context.Context, collection string, v any) error
	Save(ctx context.Context, collection string, v any) error
	Close() error
}
