package models

import "github.com/google/uuid"

// NewID returns a fresh identifier for a domain record.
func NewID() string {
	return uuid.New().String()
}
