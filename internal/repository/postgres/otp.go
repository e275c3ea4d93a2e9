package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"salon-service/internal/domain/otp"
	apperrors "salon-service/pkg/errors"
)

type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) *OTPRepository {
	return &OTPRepository{db: db}
}

const otpColumns = "id, user_id, code_hash, attempts, expires_at, created_at, used_at"

func scanOTP(row pgx.Row) (*otp.OTP, error) {
	o := &otp.OTP{}
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CodeHash,
		&o.Attempts,
		&o.ExpiresAt,
		&o.CreatedAt,
		&o.UsedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OTPRepository) Create(ctx context.Context, input otp.CreateOTPInput) (*otp.OTP, error) {
	query := `
		INSERT INTO email_otps (user_id, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING ` + otpColumns

	o, err := scanOTP(r.db.Pool.QueryRow(ctx, query, input.UserID, input.CodeHash, input.ExpiresAt))
	if err != nil {
		return nil, errFailedCreateOTP(err)
	}

	return o, nil
}

func (r *OTPRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*otp.OTP, error) {
	query := `
		SELECT ` + otpColumns + `
		FROM email_otps
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	o, err := scanOTP(r.db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errOTPNotFound)
		}
		return nil, errFailedGetOTP(err)
	}

	return o, nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE email_otps SET attempts = attempts + 1 WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedUpdateOTP(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errOTPNotFound)
	}

	return nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE email_otps SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedUpdateOTP(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errOTPNotFound)
	}

	return nil
}

// InvalidateForUser expires every outstanding code for the user. Issued
// codes are single-flight: only the newest one is ever checkable, but
// expiring the rest keeps the table honest.
func (r *OTPRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE email_otps SET expires_at = NOW() WHERE user_id = $1 AND used_at IS NULL AND expires_at > NOW()`

	if _, err := r.db.Pool.Exec(ctx, query, userID); err != nil {
		return errFailedInvalidateOTP(err)
	}

	return nil
}
