package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps collections as marshaled JSON in memory. Used in tests
// and for throwaway runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]byte)}
}

// Load decodes the named collection into v. A missing collection is not an
// error; v is left untouched.
func (s *MemoryStore) Load(ctx context.Context, collection string, v any) error {
	s.mu.RLock()
	raw, ok := s.collections[collection]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode collection %q: %w", collection, err)
	}
	return nil
}

// Save overwrites the named collection with v.
func (s *MemoryStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}

	s.mu.Lock()
	s.collections[collection] = raw
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
