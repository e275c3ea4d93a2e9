package authz

import "strings"

const wildcardSuffix = "/*"

// Matches reports whether path belongs to any of the given patterns.
// Three rules are tried in order, short-circuiting on the first hit:
//
//  1. Exact equality.
//  2. Wildcard: a pattern ending in "/*" matches any path that starts
//     with the pattern minus the trailing "*" (the "/" stays as the
//     prefix boundary).
//  3. Nested: a pattern also matches any path under it, so "/staff"
//     matches "/staff/dashboard" without an explicit wildcard.
//
// Matching is case-sensitive and purely syntactic. No normalization is
// performed; callers must strip query strings first. A pattern never
// matches a strict super-string ("/staff" does not match "/staffing").
func Matches(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchOne(path, pattern) {
			return true
		}
	}
	return false
}

func matchOne(path, pattern string) bool {
	if path == "" || pattern == "" {
		return false
	}

	if path == pattern {
		return true
	}

	if strings.HasSuffix(pattern, wildcardSuffix) {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(path, prefix)
	}

	return strings.HasPrefix(path, pattern+"/")
}
