package authz

import (
	"net/http"
	"net/url"
)

// Tier names the protected-route groups. Each tier binds a set of path
// patterns to one Requirement.
type Tier string

const (
	TierPublicOnly Tier = "publicOnly"
	TierAdmin      Tier = "admin"
	TierOwner      Tier = "owner"
	TierStaff      Tier = "staff"
	TierVerified   Tier = "verified"
	TierAuth       Tier = "auth"
)

// tierOrder is the fixed evaluation order for a request that matches
// more than one group: public-only first, then the role tiers from most
// to least privileged, then verified, then auth-only. There is no
// "most specific match" resolution; the first failing check wins.
var tierOrder = []Tier{
	TierPublicOnly,
	TierAdmin,
	TierOwner,
	TierStaff,
	TierVerified,
	TierAuth,
}

// group is one named bundle of patterns plus its requirement.
type group struct {
	patterns    []string
	requirement Requirement
}

// Policy is the route-to-requirement table, built once at startup and
// never mutated afterwards. It is the single authorization gate: edge
// middleware, server guards, and handler guards all decide through it.
type Policy struct {
	groups map[Tier]group
}

// DefaultPolicy returns the policy for the salon application's route map.
// The per-tier required-role sets are cumulative supersets: staff admits
// {staff, owner, admin}, owner admits {owner, admin}, admin admits only
// {admin}.
func DefaultPolicy() *Policy {
	return &Policy{
		groups: map[Tier]group{
			TierAuth: {
				patterns:    []string{"/profile", "/dashboard", "/settings"},
				requirement: Requirement{RequireAuth: true},
			},
			TierVerified: {
				patterns: []string{"/profile/edit", "/bookings", "/appointments"},
				requirement: Requirement{
					RequireAuth:         true,
					RequireVerification: true,
				},
			},
			TierStaff: {
				patterns: []string{"/staff", "/staff/dashboard", "/staff/appointments", "/staff/clients"},
				requirement: Requirement{
					RequireAuth:         true,
					RequireVerification: true,
					RequiredRoles:       []Role{RoleStaff, RoleOwner, RoleAdmin},
				},
			},
			TierOwner: {
				patterns: []string{"/owner", "/owner/dashboard", "/owner/salon", "/owner/staff", "/owner/analytics"},
				requirement: Requirement{
					RequireAuth:         true,
					RequireVerification: true,
					RequiredRoles:       []Role{RoleOwner, RoleAdmin},
				},
			},
			TierAdmin: {
				patterns: []string{"/admin", "/admin/dashboard", "/admin/users", "/admin/salons", "/admin/system"},
				requirement: Requirement{
					RequireAuth:         true,
					RequireVerification: true,
					RequiredRole:        RoleAdmin,
				},
			},
			TierPublicOnly: {
				patterns: []string{"/auth/login", "/auth/register"},
			},
		},
	}
}

// Requirement returns the requirement bound to a tier. Unknown tiers
// yield the zero Requirement (public).
func (p *Policy) Requirement(tier Tier) Requirement {
	return p.groups[tier].requirement
}

// MatchTiers returns every tier whose patterns match path, in the fixed
// evaluation order. A path matching no tier is public.
func (p *Policy) MatchTiers(path string) []Tier {
	var matched []Tier
	for _, tier := range tierOrder {
		if Matches(path, p.groups[tier].patterns) {
			matched = append(matched, tier)
		}
	}
	return matched
}

// EvaluatePath classifies path against every group it matches and applies
// each group's requirement in the fixed tier order, returning the first
// denial. Paths outside every group are public. Public-only routes invert
// the check: an already-authenticated token is sent to the landing page
// so users cannot re-enter auth flows.
//
// Unauthenticated denials carry the original path back as a callbackUrl
// query parameter on the login redirect.
func (p *Policy) EvaluatePath(path string, token Token) Result {
	for _, tier := range p.MatchTiers(path) {
		if tier == TierPublicOnly {
			if token.Authenticated {
				return Result{
					Reason:     ReasonAlreadyAuthenticated,
					RedirectTo: DashboardPath,
					StatusCode: http.StatusForbidden,
				}
			}
			continue
		}

		result := Evaluate(token, p.groups[tier].requirement)
		if !result.Allowed {
			if result.Reason == ReasonAuthRequired {
				result.RedirectTo = loginRedirect(path)
			}
			return result
		}
	}

	return Result{Allowed: true}
}

func loginRedirect(callbackPath string) string {
	return LoginPath + "?callbackUrl=" + url.QueryEscape(callbackPath)
}
