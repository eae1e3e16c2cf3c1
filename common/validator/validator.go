package validator

import (
	"regexp"
	"strings"
)

// Regex patterns
var (
	// Email pattern - RFC 5322 simplified
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

	// Recovery code pattern: exactly 6 ASCII digits
	RecoveryCodePattern = regexp.MustCompile(`^\d{6}$`)
)

// IsBlank reports whether s is empty or all-whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return EmailPattern.MatchString(email)
}

// IsValidRecoveryCode validates recovery code format
func IsValidRecoveryCode(code string) bool {
	return RecoveryCodePattern.MatchString(code)
}

// GetEmailError returns user-friendly error message for email
func GetEmailError(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "email is required"
	}
	if !IsValidEmail(trimmed) {
		return "invalid email address"
	}
	return ""
}

// GetPasswordError returns user-friendly error message for a new password
func GetPasswordError(password string) string {
	if password == "" {
		return "password is required"
	}
	if len(password) < 6 {
		return "password must have at least 6 characters"
	}
	return ""
}

// GetRecoveryCodeError returns user-friendly error message for a recovery code
func GetRecoveryCodeError(code string) string {
	if strings.TrimSpace(code) == "" {
		return "code is required"
	}
	if !IsValidRecoveryCode(code) {
		return "code must be 6 digits"
	}
	return ""
}
