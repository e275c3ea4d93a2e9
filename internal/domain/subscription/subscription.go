package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"

	errInvalidStatusFmt = "invalid subscription status: %s"
)

// Validate validates the status
func (s Status) Validate() error {
	switch s {
	case StatusCreated, StatusActive, StatusPaused, StatusCancelled, StatusCompleted:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

type Subscription struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	RazorpayID string
	PlanID     string
	Status     Status
	CurrentEnd *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateSubscriptionInput struct {
	UserID     uuid.UUID
	RazorpayID string
	PlanID     string
	Status     Status
}

// CanPause reports whether a pause request is valid for the current state.
func (s *Subscription) CanPause() bool {
	return s.Status == StatusActive
}

// CanResume reports whether a resume request is valid for the current state.
func (s *Subscription) CanResume() bool {
	return s.Status == StatusPaused
}

// CanCancel reports whether a cancel request is valid for the current state.
func (s *Subscription) CanCancel() bool {
	return s.Status == StatusCreated || s.Status == StatusActive || s.Status == StatusPaused
}

// CanChangePlan reports whether a plan change is valid for the current state.
func (s *Subscription) CanChangePlan() bool {
	return s.Status == StatusActive
}
