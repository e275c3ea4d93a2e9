package authz

import "net/http"

// Default redirect targets for denied requests. A Requirement may
// override these via RedirectTo.
const (
	LoginPath        = "/auth/login"
	VerifyEmailPath  = "/auth/verify-email"
	UnauthorizedPath = "/unauthorized"
	DashboardPath    = "/dashboard"
)

const (
	ReasonAuthRequired         = "Authentication required"
	ReasonVerificationRequired = "Email verification required"
	ReasonInsufficientRole     = "Insufficient role"
	ReasonAlreadyAuthenticated = "Already authenticated"
)

// Token is the session-shaped input to the evaluator: an already-resolved
// view of the caller's claims. Identity fields are carried for handlers
// and audit but never consulted by Evaluate.
type Token struct {
	Authenticated bool
	Role          Role
	EmailVerified bool

	UserID string
	Email  string
}

// Requirement describes what a route demands. The zero value is public:
// every token passes.
type Requirement struct {
	RequireAuth         bool
	RequireVerification bool
	RequiredRole        Role
	RequiredRoles       []Role
	MinRole             Role
	AllowedRoles        []Role

	// RedirectTo overrides the per-check default redirect on every deny path.
	RedirectTo string
}

// Result is the evaluator's decision. Allowed=true means the other fields
// are zero; Allowed=false means RedirectTo and StatusCode are always set.
type Result struct {
	Allowed    bool
	Reason     string
	RedirectTo string
	StatusCode int
}

// Evaluate applies the checks of a Requirement against a Token in fixed
// priority order, returning on the first failure. The ordering is
// load-bearing: an unauthenticated request to a verification-requiring
// route must land on the login page, never on the verification page.
func Evaluate(token Token, req Requirement) Result {
	if req.RequireAuth && !token.Authenticated {
		return deny(ReasonAuthRequired, req.RedirectTo, LoginPath, http.StatusUnauthorized)
	}

	if req.RequireVerification && !token.EmailVerified {
		return deny(ReasonVerificationRequired, req.RedirectTo, VerifyEmailPath, http.StatusForbidden)
	}

	if req.RequiredRole != "" && token.Role != req.RequiredRole {
		return deny(ReasonInsufficientRole, req.RedirectTo, UnauthorizedPath, http.StatusForbidden)
	}

	if len(req.RequiredRoles) > 0 && !containsRole(req.RequiredRoles, token.Role) {
		return deny(ReasonInsufficientRole, req.RedirectTo, UnauthorizedPath, http.StatusForbidden)
	}

	if req.MinRole != "" && !HasMinRole(token.Role, req.MinRole) {
		return deny(ReasonInsufficientRole, req.RedirectTo, UnauthorizedPath, http.StatusForbidden)
	}

	if len(req.AllowedRoles) > 0 && !containsRole(req.AllowedRoles, token.Role) {
		return deny(ReasonInsufficientRole, req.RedirectTo, UnauthorizedPath, http.StatusForbidden)
	}

	return Result{Allowed: true}
}

func deny(reason, override, fallback string, status int) Result {
	redirect := fallback
	if override != "" {
		redirect = override
	}
	return Result{
		Reason:     reason,
		RedirectTo: redirect,
		StatusCode: status,
	}
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
