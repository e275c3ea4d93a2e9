package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "salon-service/pkg/errors"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages.
// This prevents information disclosure by providing consistent, generic error messages.
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		return http.StatusForbidden, "email verification required"
	case errors.Is(err, apperrors.ErrInsufficientRole):
		return http.StatusForbidden, "insufficient role"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrEmailExists):
		return http.StatusConflict, msgEmailAlreadyExists
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrOTPExpired):
		return http.StatusBadRequest, "verification code expired"
	case errors.Is(err, apperrors.ErrOTPAttemptsExceeded):
		return http.StatusTooManyRequests, "too many verification attempts"
	case errors.Is(err, apperrors.ErrOTPInvalid):
		return http.StatusBadRequest, "invalid verification code"
	case errors.Is(err, apperrors.ErrSubscriptionState):
		return http.StatusConflict, "subscription state does not allow this operation"
	case errors.Is(err, apperrors.ErrWebhookSignature):
		return http.StatusUnauthorized, msgWebhookBadSignature
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusUnauthorized, "credentials expired"
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondWithMappedError responds with a mapped error, preventing information disclosure
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	return respondError(c, status, msg)
}
