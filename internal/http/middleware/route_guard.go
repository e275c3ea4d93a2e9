package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"salon-service/internal/authz"
)

// excludedPrefixes are paths the guard never evaluates: the JSON API
// carries its own middleware chain, and assets are public by nature.
var excludedPrefixes = []string{
	"/api/",
	"/static/",
	"/favicon.ico",
}

var excludedExtensions = []string{
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp",
}

// SessionResolver turns request credentials into an access token,
// anonymous when absent or invalid.
type SessionResolver interface {
	ResolveSession(c echo.Context) authz.Token
}

// RouteGuard is the edge enforcement layer for page routes: every
// request passes through one policy evaluation, and denials become
// redirects.
type RouteGuard struct {
	sessions SessionResolver
	policy   *authz.Policy
}

func NewRouteGuard(sessions SessionResolver, policy *authz.Policy) *RouteGuard {
	return &RouteGuard{sessions: sessions, policy: policy}
}

// Middleware evaluates the route policy for each non-excluded request.
// Allowed requests pass through untouched; denied ones are redirected
// to the destination the policy names.
func (g *RouteGuard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if isExcludedPath(path) {
				return next(c)
			}

			token := g.sessions.ResolveSession(c)
			result := g.policy.EvaluatePath(path, token)
			if result.Allowed {
				return next(c)
			}

			return c.Redirect(http.StatusFound, result.RedirectTo)
		}
	}
}

func isExcludedPath(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
