package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salon-service/internal/authz"
	"salon-service/internal/domain/otp"
	"salon-service/internal/domain/subscription"
	"salon-service/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	CreateOAuth(ctx context.Context, input user.CreateOAuthUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*user.User, error)
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error
	List(ctx context.Context, limit, offset int) ([]*user.User, error)
}

type OTPRepository interface {
	Create(ctx context.Context, input otp.CreateOTPInput) (*otp.OTP, error)
	GetLatest(ctx context.Context, userID uuid.UUID) (*otp.OTP, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkUsed(ctx context.Context, id uuid.UUID) error
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, input subscription.CreateSubscriptionInput) (*subscription.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error)
	GetByRazorpayID(ctx context.Context, razorpayID string) (*subscription.Subscription, error)
	UpdateStatus(ctx context.Context, razorpayID string, status subscription.Status, currentEnd *time.Time) error
	UpdatePlan(ctx context.Context, razorpayID, planID string) error
}
