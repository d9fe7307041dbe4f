package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the username or the password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned after a correct credential check against a
	// disabled account. Revealing the inactive state post password match is an
	// intentional product choice, not an enumeration leak.
	ErrAccountInactive = errors.New("account inactive")
	// ErrRateLimited signals the brute-force gate rejected the attempt before
	// the credential store was touched.
	ErrRateLimited = errors.New("too many attempts")
	// ErrTokenExpiredOrInvalid covers every password-reset token failure with a
	// single message so callers cannot distinguish unknown from expired tokens.
	ErrTokenExpiredOrInvalid = errors.New("invalid or expired token")
	// ErrProtectedUser guards the master account against deletion or deactivation.
	ErrProtectedUser = errors.New("master account is protected")

	ErrUnauthorized = errors.New("authentication required")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// RateLimitedError wraps ErrRateLimited with the wait until the next
// attempt is allowed, so the transport can emit a Retry-After header.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }
