package validator

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 72
	otpCodeLength     = 6
	maxNameLength     = 120

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errOTPLengthFmt         = "verification code must be %d digits"
	errOTPDigitsFmt         = "verification code must contain only digits"
	errNameEmptyFmt         = "name cannot be empty"
	errNameMaxLengthFmt     = "name must not exceed %d characters"
	errNameControlCharsFmt  = "name cannot contain control characters"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func OTPCode(code string) error {
	if len(code) != otpCodeLength {
		return fmt.Errorf(errOTPLengthFmt, otpCodeLength)
	}

	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return fmt.Errorf(errOTPDigitsFmt)
		}
	}

	return nil
}

func DisplayName(name string) error {
	if name == "" {
		return fmt.Errorf(errNameEmptyFmt)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, maxNameLength)
	}

	for _, ch := range name {
		if unicode.IsControl(ch) {
			return fmt.Errorf(errNameControlCharsFmt)
		}
	}

	return nil
}
