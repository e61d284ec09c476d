package model

import "time"

// Roles a user can hold. Administrative stock mutations require RoleAdmin,
// checked against the persisted record rather than any caller claim.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account. Users are keyed by username in the
// users collection and are never deleted.
type User struct {
	Password       string     `json:"password"`
	Role           string     `json:"role"`
	Email          string     `json:"email"`
	ProfileCreated bool       `json:"profile_created"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
