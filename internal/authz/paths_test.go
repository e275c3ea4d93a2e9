package authz

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		expected bool
	}{
		{"exact match", "/owner", []string{"/owner"}, true},
		{"nested path matches bare pattern", "/staff/clients", []string{"/staff"}, true},
		{"strict super-string does not match", "/staffing", []string{"/staff"}, false},
		{"wildcard matches children", "/owner/x", []string{"/owner/*"}, true},
		{"wildcard matches deep children", "/owner/salon/hours", []string{"/owner/*"}, true},
		{"wildcard does not match sibling", "/ownership", []string{"/owner/*"}, false},
		{"first pattern wins short-circuit", "/admin", []string{"/admin", "/admin/*"}, true},
		{"later pattern still matches", "/admin/users", []string{"/profile", "/admin"}, true},
		{"no match", "/pricing", []string{"/admin", "/owner", "/staff"}, false},
		{"empty path never matches", "", []string{"/admin"}, false},
		{"empty pattern never matches", "/admin", []string{""}, false},
		{"empty pattern list", "/admin", nil, false},
		{"case sensitive", "/Admin", []string{"/admin"}, false},
		{"no trailing slash normalization", "/admin/", []string{"/admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.path, tt.patterns); got != tt.expected {
				t.Errorf("Matches(%q, %v) = %v, expected %v", tt.path, tt.patterns, got, tt.expected)
			}
		})
	}
}
