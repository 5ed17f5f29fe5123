package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owning categories and transactions
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is a persisted, single-use refresh credential
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// Identity is the authenticated caller resolved from a bearer token
type Identity struct {
	UserID uuid.UUID
	Email  string
}
