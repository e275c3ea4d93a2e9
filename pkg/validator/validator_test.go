package validator

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{"valid email", "amit@example.com", false},
		{"valid with plus tag", "amit+booking@example.co.in", false},
		{"empty", "", true},
		{"missing at", "amit.example.com", true},
		{"missing tld", "amit@example", true},
		{"spaces", "amit @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.email)
			if tt.shouldErr && err == nil {
				t.Errorf("Email(%q) expected error, got nil", tt.email)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Email(%q) unexpected error: %v", tt.email, err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	if err := Password("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := Password("long-enough-password"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if err := Password(string(long)); err == nil {
		t.Error("expected error for over-length password")
	}
}

func TestOTPCode(t *testing.T) {
	tests := []struct {
		code      string
		shouldErr bool
	}{
		{"123456", false},
		{"000000", false},
		{"12345", true},
		{"1234567", true},
		{"12345a", true},
		{"", true},
	}

	for _, tt := range tests {
		err := OTPCode(tt.code)
		if tt.shouldErr && err == nil {
			t.Errorf("OTPCode(%q) expected error, got nil", tt.code)
		}
		if !tt.shouldErr && err != nil {
			t.Errorf("OTPCode(%q) unexpected error: %v", tt.code, err)
		}
	}
}
