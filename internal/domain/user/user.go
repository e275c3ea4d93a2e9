package user

import (
	"time"

	"github.com/google/uuid"

	"salon-service/internal/authz"
)

type User struct {
	ID            uuid.UUID
	Email         string
	Name          string
	PasswordHash  string
	Role          authz.Role
	EmailVerified bool
	GoogleID      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateUserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
}

type CreateOAuthUserInput struct {
	Email    string
	Name     string
	GoogleID string
}

// HasPassword reports whether the account carries local credentials.
// OAuth-only accounts have none.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
