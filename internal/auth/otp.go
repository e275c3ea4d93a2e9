package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"salon-service/internal/domain/otp"
	"salon-service/internal/repository"
	apperrors "salon-service/pkg/errors"
	"salon-service/pkg/token"
)

// CodeSender delivers a verification code to a recipient. Implemented by
// the mailer; stubbed in tests.
type CodeSender interface {
	SendVerificationCode(to, name, code string, expiry time.Duration) error
}

type OTPService struct {
	otpRepo     repository.OTPRepository
	userRepo    repository.UserRepository
	sender      CodeSender
	expiry      time.Duration
	maxAttempts int
}

func NewOTPService(otpRepo repository.OTPRepository, userRepo repository.UserRepository, sender CodeSender, expiry time.Duration, maxAttempts int) *OTPService {
	return &OTPService{
		otpRepo:     otpRepo,
		userRepo:    userRepo,
		sender:      sender,
		expiry:      expiry,
		maxAttempts: maxAttempts,
	}
}

// Issue generates a fresh code for the user, invalidates any outstanding
// one, stores the hash, and emails the plaintext. The plaintext never
// touches persistent storage.
func (s *OTPService) Issue(ctx context.Context, userID uuid.UUID) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	code, err := token.GenerateOTP()
	if err != nil {
		return apperrors.InternalServer("failed to generate verification code", err)
	}

	if err := s.otpRepo.InvalidateForUser(ctx, userID); err != nil {
		return err
	}

	input := otp.CreateOTPInput{
		UserID:    userID,
		CodeHash:  HashCode(code),
		ExpiresAt: time.Now().Add(s.expiry),
	}
	if _, err := s.otpRepo.Create(ctx, input); err != nil {
		return err
	}

	return s.sender.SendVerificationCode(u.Email, u.Name, code, s.expiry)
}

// Verify checks a submitted code against the user's latest outstanding
// one. Failed attempts are counted; expiry, exhaustion, and mismatch each
// surface as their own sentinel. On success the code is consumed and the
// user marked verified.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	latest, err := s.otpRepo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn a hash anyway so missing codes are not observable by timing.
			VerifyCodeHash(code, "")
			return apperrors.OTPInvalid(msgOTPInvalid)
		}
		return err
	}

	if latest.UsedAt != nil {
		VerifyCodeHash(code, "")
		return apperrors.OTPInvalid(msgOTPInvalid)
	}

	if latest.Attempts >= s.maxAttempts {
		return &apperrors.AppError{Code: "OTP_ATTEMPTS", Message: msgOTPAttemptsExceeded, Err: apperrors.ErrOTPAttemptsExceeded}
	}

	if latest.ExpiresAt.Before(time.Now()) {
		return &apperrors.AppError{Code: "OTP_EXPIRED", Message: msgOTPExpired, Err: apperrors.ErrOTPExpired}
	}

	if !VerifyCodeHash(code, latest.CodeHash) {
		if err := s.otpRepo.IncrementAttempts(ctx, latest.ID); err != nil {
			return err
		}
		return apperrors.OTPInvalid(msgOTPInvalid)
	}

	if err := s.otpRepo.MarkUsed(ctx, latest.ID); err != nil {
		return err
	}

	return s.userRepo.MarkVerified(ctx, userID)
}

// NewCode generates a code for callers that persist the hash themselves,
// such as the signup transaction which writes user and code in one unit.
func (s *OTPService) NewCode() (code, codeHash string, expiresAt time.Time, err error) {
	code, err = token.GenerateOTP()
	if err != nil {
		return "", "", time.Time{}, apperrors.InternalServer("failed to generate verification code", err)
	}
	return code, HashCode(code), time.Now().Add(s.expiry), nil
}

// Deliver emails an already-persisted code to its recipient.
func (s *OTPService) Deliver(email, name, code string) error {
	return s.sender.SendVerificationCode(email, name, code, s.expiry)
}
