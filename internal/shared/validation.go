package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registration is the input collected by a sign-up form.
type Registration struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Validate applies the sign-up form rules in the order a user sees them.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" || r.Confirm == "" {
		return fmt.Errorf("%w: please fill in all fields", ErrInvalidInput)
	}
	if r.Password != r.Confirm {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	if len(r.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, MinPasswordLength)
	}
	if !ValidEmail(r.Email) {
		return fmt.Errorf("%w: please enter a valid email address", ErrInvalidInput)
	}
	return nil
}

// ValidateLogin checks that both sign-in fields were provided.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: please fill in all fields", ErrInvalidInput)
	}
	return nil
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
