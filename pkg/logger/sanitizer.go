package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`)
	otpPattern      = regexp.MustCompile(`(?i)(otp|verification[_-]?code)[\s:=]+\d+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|private[_-]?key|razorpay[_-]?key)[\s:=]+[^\s]+`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes credentials, codes, and secrets from log
// messages before they leave the process.
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = otpPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}

// MaskEmail keeps the first character of the local part and the domain,
// enough to correlate log lines without logging the address.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return redactedPlaceholder
	}
	return email[:1] + "***" + email[at:]
}

// SanitizeEmails replaces every email address in the message with its
// masked form.
func SanitizeEmails(message string) string {
	return emailPattern.ReplaceAllStringFunc(message, MaskEmail)
}
