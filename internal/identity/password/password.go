// Package password provides one-way salted hashing of account credentials.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. The cost factor is fixed
// at construction; bcrypt salts every hash, so hashing the same password
// twice yields different encoded values that both verify.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost. Costs outside the
// bcrypt range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted bcrypt hash of the raw password.
func (h *Hasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether raw matches the stored hash. Malformed hashes are
// treated as a mismatch, never an error.
func (h *Hasher) Verify(raw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}
