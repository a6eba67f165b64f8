package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// PasswordHasher hashes and verifies user passwords. With AllowLegacy set,
// stored values that are not bcrypt hashes are compared as plain text and
// reported for rehashing.
type PasswordHasher struct {
	Cost        int
	AllowLegacy bool
}

// NewPasswordHasher returns a hasher with the default cost.
func NewPasswordHasher(allowLegacy bool) *PasswordHasher {
	return &PasswordHasher{Cost: bcryptCost, AllowLegacy: allowLegacy}
}

// Hash returns the bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches stored, and whether stored should
// be replaced with a fresh hash.
func (h *PasswordHasher) Verify(stored, password string) (ok bool, rehash bool) {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	if !h.AllowLegacy || stored == "" {
		return false, false
	}
	ok = subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	return ok, ok
}

// IsHashed reports whether value looks like a bcrypt hash.
func IsHashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
