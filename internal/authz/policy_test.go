package authz

import (
	"net/http"
	"testing"
)

func TestMatchTiersOrder(t *testing.T) {
	p := DefaultPolicy()

	// /staff/clients sits under the staff group only.
	tiers := p.MatchTiers("/staff/clients")
	if len(tiers) != 1 || tiers[0] != TierStaff {
		t.Errorf("MatchTiers(/staff/clients) = %v, expected [staff]", tiers)
	}

	// /profile/edit belongs to both the verified and auth groups; verified
	// must come first in the fixed order.
	tiers = p.MatchTiers("/profile/edit")
	if len(tiers) != 2 || tiers[0] != TierVerified || tiers[1] != TierAuth {
		t.Errorf("MatchTiers(/profile/edit) = %v, expected [verified auth]", tiers)
	}

	if tiers := p.MatchTiers("/pricing"); len(tiers) != 0 {
		t.Errorf("MatchTiers(/pricing) = %v, expected none", tiers)
	}
}

func TestEvaluatePathScenarios(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name       string
		path       string
		token      Token
		allowed    bool
		redirectTo string
		statusCode int
	}{
		{
			name:       "admin route without token goes to login with callback",
			path:       "/admin/users",
			token:      Token{},
			redirectTo: "/auth/login?callbackUrl=%2Fadmin%2Fusers",
			statusCode: http.StatusUnauthorized,
		},
		{
			name:       "admin route with owner role is unauthorized",
			path:       "/admin/users",
			token:      Token{Authenticated: true, EmailVerified: true, Role: RoleOwner},
			redirectTo: UnauthorizedPath,
			statusCode: http.StatusForbidden,
		},
		{
			name:       "staff route with unverified staff goes to verify-email",
			path:       "/staff/clients",
			token:      Token{Authenticated: true, Role: RoleStaff},
			redirectTo: VerifyEmailPath,
			statusCode: http.StatusForbidden,
		},
		{
			name:       "login page bounces authenticated users to dashboard",
			path:       "/auth/login",
			token:      Token{Authenticated: true, Role: RoleUser},
			redirectTo: DashboardPath,
			statusCode: http.StatusForbidden,
		},
		{
			name:    "auth tier does not require verification",
			path:    "/profile",
			token:   Token{Authenticated: true, Role: RoleUser},
			allowed: true,
		},
		{
			name:    "unmatched path is public",
			path:    "/pricing",
			token:   Token{},
			allowed: true,
		},
		{
			name:    "login page is open to anonymous users",
			path:    "/auth/login",
			token:   Token{},
			allowed: true,
		},
		{
			name:    "admin passes every tier it outranks",
			path:    "/staff/dashboard",
			token:   Token{Authenticated: true, EmailVerified: true, Role: RoleAdmin},
			allowed: true,
		},
		{
			name:       "owner route rejects staff",
			path:       "/owner/analytics",
			token:      Token{Authenticated: true, EmailVerified: true, Role: RoleStaff},
			redirectTo: UnauthorizedPath,
			statusCode: http.StatusForbidden,
		},
		{
			name:       "verified tier redirects unverified users",
			path:       "/bookings",
			token:      Token{Authenticated: true, Role: RoleUser},
			redirectTo: VerifyEmailPath,
			statusCode: http.StatusForbidden,
		},
		{
			name:       "nested admin path without explicit pattern",
			path:       "/admin/system/flags",
			token:      Token{},
			redirectTo: "/auth/login?callbackUrl=%2Fadmin%2Fsystem%2Fflags",
			statusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.EvaluatePath(tt.path, tt.token)
			if result.Allowed != tt.allowed {
				t.Fatalf("EvaluatePath(%q, %+v).Allowed = %v, expected %v (result %+v)",
					tt.path, tt.token, result.Allowed, tt.allowed, result)
			}
			if tt.allowed {
				return
			}
			if result.RedirectTo != tt.redirectTo {
				t.Errorf("redirect = %q, expected %q", result.RedirectTo, tt.redirectTo)
			}
			if result.StatusCode != tt.statusCode {
				t.Errorf("status = %d, expected %d", result.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestRequirementLookup(t *testing.T) {
	p := DefaultPolicy()

	req := p.Requirement(TierAdmin)
	if req.RequiredRole != RoleAdmin || !req.RequireAuth || !req.RequireVerification {
		t.Errorf("admin tier requirement = %+v", req)
	}

	unknown := p.Requirement(Tier("nope"))
	if unknown.RequireAuth || unknown.RequireVerification || unknown.RequiredRole != "" ||
		len(unknown.RequiredRoles) != 0 || unknown.MinRole != "" || len(unknown.AllowedRoles) != 0 {
		t.Errorf("unknown tier should be public, got %+v", unknown)
	}
}
