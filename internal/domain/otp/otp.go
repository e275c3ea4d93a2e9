package otp

import (
	"time"

	"github.com/google/uuid"
)

type OTP struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

type CreateOTPInput struct {
	UserID    uuid.UUID
	CodeHash  string
	ExpiresAt time.Time
}

// IsActive reports whether the code can still be attempted.
func (o *OTP) IsActive(maxAttempts int) bool {
	if o.UsedAt != nil {
		return false
	}
	if o.Attempts >= maxAttempts {
		return false
	}
	return o.ExpiresAt.After(time.Now())
}
