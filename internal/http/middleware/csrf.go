package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/auth"
)

const (
	csrfTokenLength = 32
	csrfTokenTTL    = 24 * time.Hour
	csrfHeaderName  = "X-CSRF-Token"
	cleanupInterval = 1 * time.Hour
)

// CSRFToken represents a CSRF token with expiry
type CSRFToken struct {
	Token     string
	ExpiresAt time.Time
}

// CSRFMiddleware protects cookie-authenticated mutations with
// per-user tokens.
type CSRFMiddleware struct {
	tokens  sync.Map // userID -> CSRFToken
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewCSRFMiddleware creates a new CSRF middleware with background cleanup
func NewCSRFMiddleware(ctx context.Context) *CSRFMiddleware {
	cleanupCtx, cancel := context.WithCancel(ctx)
	m := &CSRFMiddleware{
		ctx:     cleanupCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Stop gracefully stops the cleanup goroutine
func (m *CSRFMiddleware) Stop() {
	m.cancel()
	<-m.stopped
}

func (m *CSRFMiddleware) cleanupLoop() {
	defer close(m.stopped)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.CleanupExpiredTokens()
		}
	}
}

func generateToken() (string, error) {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// GetOrCreateToken gets or creates a CSRF token for a user
func (m *CSRFMiddleware) GetOrCreateToken(userID uuid.UUID) (string, error) {
	if tokenRaw, exists := m.tokens.Load(userID.String()); exists {
		if csrfToken, ok := tokenRaw.(*CSRFToken); ok {
			if time.Now().Before(csrfToken.ExpiresAt) {
				return csrfToken.Token, nil
			}
		}
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	m.tokens.Store(userID.String(), &CSRFToken{
		Token:     token,
		ExpiresAt: time.Now().Add(csrfTokenTTL),
	})
	return token, nil
}

// Middleware returns an Echo middleware function for CSRF protection
func (m *CSRFMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Safe methods carry no state change to protect.
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			// Unauthenticated requests are covered by credential checks.
			userIDRaw := c.Get(auth.ContextKeyUserID)
			if userIDRaw == nil {
				return next(c)
			}

			userID, ok := userIDRaw.(uuid.UUID)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid user context",
				})
			}

			tokenRaw, exists := m.tokens.Load(userID.String())
			if !exists {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "CSRF token not found",
				})
			}

			csrfToken, ok := tokenRaw.(*CSRFToken)
			if !ok || time.Now().After(csrfToken.ExpiresAt) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "CSRF token expired",
				})
			}

			providedToken := c.Request().Header.Get(csrfHeaderName)
			if providedToken == "" {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "CSRF token required",
				})
			}

			if subtle.ConstantTimeCompare([]byte(providedToken), []byte(csrfToken.Token)) != 1 {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "invalid CSRF token",
				})
			}

			return next(c)
		}
	}
}

// CleanupExpiredTokens removes expired tokens (called by background goroutine)
func (m *CSRFMiddleware) CleanupExpiredTokens() {
	now := time.Now()
	m.tokens.Range(func(key, value any) bool {
		if csrfToken, ok := value.(*CSRFToken); ok {
			if now.After(csrfToken.ExpiresAt) {
				m.tokens.Delete(key)
			}
		}
		return true
	})
}
