package domain

import (
	"fmt"
	"unicode"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// ValidatePassword enforces the baseline password policy for created and
// reset passwords. bcrypt truncates beyond 72 bytes, so the upper bound is
// about rejecting junk input, not extra entropy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must include letters and digits", ErrInvalidInput)
	}
	return nil
}
