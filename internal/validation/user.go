// Package validation holds the input rules for user and film records.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// ValidateEmail checks that email is a single bare address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email %q is not a valid address", email)
	}
	return nil
}

// ValidateLogin checks that login is non-empty and contains no whitespace.
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("login is required")
	}
	if strings.IndexFunc(login, unicode.IsSpace) >= 0 {
		return fmt.Errorf("login must not contain spaces")
	}
	return nil
}

// ValidateBirthday requires a date that is not in the future relative to now.
func ValidateBirthday(birthday, now time.Time) error {
	if birthday.IsZero() {
		return fmt.Errorf("birthday is required")
	}
	if birthday.After(now) {
		return fmt.Errorf("birthday cannot be in the future")
	}
	return nil
}
