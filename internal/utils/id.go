package utils

import "github.com/google/uuid"

// NewID returns a random UUID string used as an opaque message identifier.
func NewID() string {
	return uuid.NewString()
}
