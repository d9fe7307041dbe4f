package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements password hashing via bcrypt.
// Cost is configurable so security/performance can be tuned by environment.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-based hasher with default fallback cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash. A plain mismatch is
// (false, nil); the error is reserved for malformed stored hashes, which
// callers treat as a mismatch but may want to log.
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
