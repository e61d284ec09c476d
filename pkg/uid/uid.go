package uid

import "github.com/google/uuid"

// shortLen is the number of uuid characters used for short ids.
const shortLen = 8

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// Short generates a short unique token, suitable for human-facing ids such
// as order numbers. Uniqueness is good enough for a single deployment; it is
// not a cryptographic guarantee.
func Short() string {
	return uuid.New().String()[:shortLen]
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
