package model

import "time"

// SessionData contains the data stored with a session token. Sessions are an
// outer-surface convenience; the core services never trust them for
// authorization and re-check the persisted user role instead.
type SessionData struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
