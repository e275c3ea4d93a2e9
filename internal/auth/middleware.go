package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/authz"
	apperrors "salon-service/pkg/errors"
)

type Middleware struct {
	jwtService *JWTService
	policy     *authz.Policy
}

func NewMiddleware(jwtService *JWTService, policy *authz.Policy) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		policy:     policy,
	}
}

// ResolveSession decodes the request's JWT (Authorization header first,
// session cookie second) into the evaluator's token shape. A missing or
// invalid token resolves to the anonymous token, never an error; the
// guards decide what anonymity means for each route.
func (m *Middleware) ResolveSession(c echo.Context) authz.Token {
	raw := extractBearerToken(c)
	if raw == "" {
		raw = extractSessionCookie(c)
	}
	if raw == "" {
		return authz.Token{}
	}

	claims, err := m.jwtService.Verify(raw)
	if err != nil {
		return authz.Token{}
	}

	return claims.SessionToken()
}

// RequireJWT rejects requests without a valid token and stores the
// resolved session on the context for handlers and later guards.
func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractBearerToken(c)
			if raw == "" {
				raw = extractSessionCookie(c)
			}
			if raw == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(raw)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)
			c.Set(ContextKeyRole, claims.Role)
			c.Set(ContextKeyVerified, claims.EmailVerified)
			c.Set(ContextKeyToken, claims.SessionToken())

			return next(c)
		}
	}
}

// RequireTier re-evaluates the named tier's requirement against the
// session already resolved by RequireJWT. This is the server-side guard:
// even if the edge middleware was bypassed, the route still enforces its
// tier. Denials answer with the semantic status code rather than a
// redirect since API callers are not navigating.
func (m *Middleware) RequireTier(tier authz.Tier) echo.MiddlewareFunc {
	requirement := m.policy.Requirement(tier)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result := authz.Evaluate(GetSessionToken(c), requirement)
			if !result.Allowed {
				return respondError(c, result.StatusCode, result.Reason)
			}
			return next(c)
		}
	}
}

// RequireMinRole guards a route with a hierarchical role floor.
func (m *Middleware) RequireMinRole(minRole authz.Role) echo.MiddlewareFunc {
	requirement := authz.Requirement{
		RequireAuth:         true,
		RequireVerification: true,
		MinRole:             minRole,
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result := authz.Evaluate(GetSessionToken(c), requirement)
			if !result.Allowed {
				return respondError(c, result.StatusCode, result.Reason)
			}
			return next(c)
		}
	}
}

// Guard re-runs a requirement against the context session at handler
// entry. Handlers use it as a last line of defense for operations whose
// sensitivity exceeds their route's tier, so a wiring mistake in the
// route table cannot silently widen access.
func Guard(c echo.Context, requirement authz.Requirement) error {
	result := authz.Evaluate(GetSessionToken(c), requirement)
	if !result.Allowed {
		return echo.NewHTTPError(result.StatusCode, result.Reason)
	}
	return nil
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func extractSessionCookie(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetSessionToken returns the evaluator token stored by RequireJWT.
// Routes outside the JWT group see the anonymous token.
func GetSessionToken(c echo.Context) authz.Token {
	raw := c.Get(ContextKeyToken)
	if raw == nil {
		return authz.Token{}
	}

	token, ok := raw.(authz.Token)
	if !ok {
		return authz.Token{}
	}

	return token
}

func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}

	return id, nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}
