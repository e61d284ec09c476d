package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"wareflow/internal/cache"
	"wareflow/internal/model"
)

const (
	// TokenPrefix is the prefix for all session tokens
	TokenPrefix = "wfs_"

	// SessionKeyPrefix namespaces session keys in the cache
	SessionKeyPrefix = "wareflow:session:"
)

// SessionService issues and validates session tokens for the HTTP surface.
// Sessions are convenience state only: administrative authorization is
// always re-checked against the persisted user record by the core services.
type SessionService struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionService creates a session service over the given cache backend.
func NewSessionService(c cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

// Create generates a new session token for the user and stores it.
func (s *SessionService) Create(ctx context.Context, username, role string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := TokenPrefix + hex.EncodeToString(tokenBytes)

	now := time.Now()
	data := model.SessionData{
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := s.cache.Set(ctx, SessionKeyPrefix+token, raw, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Validate checks a token and returns its session data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if len(token) < len(TokenPrefix) || token[:len(TokenPrefix)] != TokenPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	raw, err := s.cache.Get(ctx, SessionKeyPrefix+token)
	if err == cache.ErrCacheMiss {
		return nil, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		_ = s.cache.Delete(ctx, SessionKeyPrefix+token)
		return nil, fmt.Errorf("session expired")
	}
	return &data, nil
}

// Revoke deletes a session token.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, SessionKeyPrefix+token)
}
