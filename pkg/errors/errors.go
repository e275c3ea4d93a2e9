package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("resource already exists")
	ErrInternalServer      = errors.New("internal server error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrExpired             = errors.New("resource expired")
	ErrEmailExists         = errors.New("email already exists")
	ErrValidation          = errors.New("validation error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrOTPExpired          = errors.New("verification code expired")
	ErrOTPInvalid          = errors.New("verification code invalid")
	ErrOTPAttemptsExceeded = errors.New("verification attempts exceeded")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrInsufficientRole    = errors.New("insufficient role")
	ErrSubscriptionState   = errors.New("invalid subscription state")
	ErrWebhookSignature    = errors.New("webhook signature mismatch")
)

// AppError is a custom error type carrying a stable code alongside the
// wrapped sentinel.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password", Err: ErrInvalidCredentials}
}

func Expired(msg string) *AppError {
	return &AppError{Code: "EXPIRED", Message: msg, Err: ErrExpired}
}

func OTPInvalid(msg string) *AppError {
	return &AppError{Code: "OTP_INVALID", Message: msg, Err: ErrOTPInvalid}
}

func SubscriptionState(msg string) *AppError {
	return &AppError{Code: "SUBSCRIPTION_STATE", Message: msg, Err: ErrSubscriptionState}
}
