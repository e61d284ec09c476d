package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

// JSONFileStore persists each collection as a flat JSON file under a data
// directory, e.g. data/users.json.
type JSONFileStore struct {
	mu  sync.Mutex
	dir string
}

// NewJSONFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load decodes the collection file into v. A missing or unreadable file is
// treated as an empty collection.
func (s *JSONFileStore) Load(ctx context.Context, collection string, v any) error {
	s.mu.Lock()
	raw, err := os.ReadFile(s.path(collection))
	s.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read collection %q: %w", collection, err)
	}

	// A corrupt file counts as empty rather than wedging every operation
	// that touches the collection. Decoding goes through a scratch value so
	// a mid-document failure cannot leave v partially populated.
	target := reflect.ValueOf(v)
	scratch := reflect.New(target.Type().Elem())
	if err := json.Unmarshal(raw, scratch.Interface()); err != nil {
		return nil
	}
	target.Elem().Set(scratch.Elem())
	return nil
}

// Save overwrites the collection file with v, pretty-printed for manual
// inspection.
func (s *JSONFileStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(collection), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write collection %q: %w", collection, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *JSONFileStore) Close() error {
	return nil
}

var _ Store = (*JSONFileStore)(nil)
