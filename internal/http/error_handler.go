package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "salon-service/pkg/errors"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, sanitizes internal errors,
// and logs errors with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	// Check for Echo HTTP errors first
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		// Map sentinel errors to HTTP status codes
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = "Invalid credentials"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrEmailNotVerified):
			code = http.StatusForbidden
			message = "Email verification required"
		case errors.Is(err, apperrors.ErrInsufficientRole):
			code = http.StatusForbidden
			message = "Insufficient role"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrEmailExists):
			code = http.StatusConflict
			message = "Email already exists"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			message = "Resource already exists"
		case errors.Is(err, apperrors.ErrOTPAttemptsExceeded):
			code = http.StatusTooManyRequests
			message = "Too many verification attempts"
		case errors.Is(err, apperrors.ErrOTPExpired):
			code = http.StatusBadRequest
			message = "Verification code expired"
		case errors.Is(err, apperrors.ErrOTPInvalid):
			code = http.StatusBadRequest
			message = "Invalid verification code"
		case errors.Is(err, apperrors.ErrSubscriptionState):
			code = http.StatusConflict
			message = "Invalid subscription state"
		case errors.Is(err, apperrors.ErrWebhookSignature):
			code = http.StatusUnauthorized
			message = "Invalid webhook signature"
		case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrExpired):
			code = http.StatusUnauthorized
			message = "Credentials expired"
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
		} else {
			_ = c.JSON(code, map[string]string{"error": message})
		}
	}
}
