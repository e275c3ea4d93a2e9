package authz

// Role represents a user's role in the system (hierarchical)
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// roleLevels is the fixed privilege order. Higher level means strictly
// more privilege; levels are unique.
var roleLevels = map[Role]int{
	RoleUser:  0,
	RoleStaff: 1,
	RoleOwner: 2,
	RoleAdmin: 3,
}

// LevelOf returns the privilege level of a role. The second return value
// is false for unknown or empty roles.
func LevelOf(role Role) (int, bool) {
	level, ok := roleLevels[role]
	return level, ok
}

// IsValidRole reports whether role is one of the four known roles.
func IsValidRole(role Role) bool {
	_, ok := roleLevels[role]
	return ok
}

// HasMinRole reports whether userRole meets or exceeds minRole in the
// hierarchy. Unknown or empty roles always fail (fail-closed).
func HasMinRole(userRole, minRole Role) bool {
	userLevel, ok := roleLevels[userRole]
	if !ok {
		return false
	}
	minLevel, ok := roleLevels[minRole]
	if !ok {
		return false
	}
	return userLevel >= minLevel
}
