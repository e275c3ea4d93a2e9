package postgres

import (
	"context"
	"time"

	"salon-service/internal/authz"
	"salon-service/internal/domain/otp"
	"salon-service/internal/domain/user"
	apperrors "salon-service/pkg/errors"
)

// SignupTransaction creates the account and its first verification code
// atomically: a user row without a pending code would strand the account
// unverifiable until a resend.
func (db *DB) SignupTransaction(ctx context.Context, email, name, passwordHash, codeHash string, codeExpiresAt time.Time) (*user.User, *otp.OTP, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	createdUser, err := scanUser(tx.QueryRow(ctx, userQuery, email, name, passwordHash, authz.RoleUser))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, apperrors.ErrEmailExists
		}
		return nil, nil, errFailedCreateUser(err)
	}

	otpQuery := `
		INSERT INTO email_otps (user_id, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING ` + otpColumns

	createdOTP, err := scanOTP(tx.QueryRow(ctx, otpQuery, createdUser.ID, codeHash, codeExpiresAt))
	if err != nil {
		return nil, nil, errFailedCreateOTP(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, errFailedCommitTransaction(err)
	}

	return createdUser, createdOTP, nil
}
