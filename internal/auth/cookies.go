package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCookie builds the cookie carrying the session JWT for browser
// clients. API clients use the Authorization header instead.
func SessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds an expired session cookie for logout.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ReadStateCookie returns the OAuth state stored before the redirect to
// Google, or empty if absent.
func ReadStateCookie(c echo.Context) string {
	cookie, err := c.Cookie(stateCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClearStateCookie builds an expired state cookie; set after the
// callback so the state cannot be replayed.
func ClearStateCookie() *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
