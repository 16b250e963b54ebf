// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Account field limits.
const (
	UsernameMinLength = 5
	UsernameMaxLength = 20
	// SecretMaxBytes is the longest input bcrypt will hash without truncating.
	SecretMaxBytes = 72
)

// ValidateUsername checks the registration rules for a username.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}

	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return fmt.Errorf("username must be between %d and %d characters", UsernameMinLength, UsernameMaxLength)
	}

	return nil
}

// ValidateSecret checks that a password is present and hashable.
func ValidateSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("password is required")
	}
	if len(secret) > SecretMaxBytes {
		return fmt.Errorf("password must not exceed %d bytes", SecretMaxBytes)
	}
	return nil
}

// ValidateAccount validates a registration request.
func ValidateAccount(username, secret string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidateSecret(secret)
}

// ValidateLogin only checks presence; length rules are not applied so
// that a login attempt never reveals which usernames are well-formed.
func ValidateLogin(username, secret string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if secret == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
