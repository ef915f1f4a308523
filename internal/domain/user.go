package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an owner of budget data. Requests authenticate with an API
// token whose SHA-256 hash is stored alongside the user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByTokenHash(tokenHash string) (*User, error)
}
