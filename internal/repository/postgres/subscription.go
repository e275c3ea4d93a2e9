package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"salon-service/internal/domain/subscription"
	apperrors "salon-service/pkg/errors"
)

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = "id, user_id, razorpay_id, plan_id, status, current_end, created_at, updated_at"

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	s := &subscription.Subscription{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.RazorpayID,
		&s.PlanID,
		&s.Status,
		&s.CurrentEnd,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, input subscription.CreateSubscriptionInput) (*subscription.Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, razorpay_id, plan_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + subscriptionColumns

	s, err := scanSubscription(r.db.Pool.QueryRow(ctx, query, input.UserID, input.RazorpayID, input.PlanID, input.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("subscription already exists for this user")
		}
		return nil, errFailedCreateSubscription(err)
	}

	return s, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	s, err := scanSubscription(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errSubscriptionNotFound)
		}
		return nil, errFailedGetSubscription(err)
	}

	return s, nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	s, err := scanSubscription(r.db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errSubscriptionNotFound)
		}
		return nil, errFailedGetSubscription(err)
	}

	return s, nil
}

func (r *SubscriptionRepository) GetByRazorpayID(ctx context.Context, razorpayID string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE razorpay_id = $1`

	s, err := scanSubscription(r.db.Pool.QueryRow(ctx, query, razorpayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errSubscriptionNotFound)
		}
		return nil, errFailedGetSubscription(err)
	}

	return s, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, razorpayID string, status subscription.Status, currentEnd *time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $1, current_end = COALESCE($2, current_end), updated_at = NOW()
		WHERE razorpay_id = $3
	`

	tag, err := r.db.Pool.Exec(ctx, query, status, currentEnd, razorpayID)
	if err != nil {
		return errFailedUpdateSubscription(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errSubscriptionNotFound)
	}

	return nil
}

func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, razorpayID, planID string) error {
	query := `UPDATE subscriptions SET plan_id = $1, updated_at = NOW() WHERE razorpay_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, planID, razorpayID)
	if err != nil {
		return errFailedUpdateSubscription(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errSubscriptionNotFound)
	}

	return nil
}
