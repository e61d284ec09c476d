package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces collection keys in Redis.
const RedisKeyPrefix = "wareflow:collection:"

// RedisStore persists each collection as a JSON string under a prefixed key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client. The caller owns the client's
// lifecycle; Close here is a no-op.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load decodes the collection value into v. A missing key is not an error;
// v is left untouched.
func (s *RedisStore) Load(ctx context.Context, collection string, v any) error {
	raw, err := s.client.Get(ctx, RedisKeyPrefix+collection).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load collection %q: %w", collection, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode collection %q: %w", collection, err)
	}
	return nil
}

// Save overwrites the collection value with v. No TTL: collections live
// until overwritten or deleted out of band.
func (s *RedisStore) Save(ctx context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}

	if err := s.client.Set(ctx, RedisKeyPrefix+collection, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", collection, err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}

var _ Store = (*RedisStore)(nil)
