package identity

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies one-way salted password digests.
type PasswordHasher interface {
	// Hash generates a digest from a plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext matches the digest. A mismatch is
	// not an error path: it returns false, as does a malformed digest.
	Verify(password, digest string) bool
}

// bcryptHasher implements PasswordHasher using bcrypt with a fixed cost.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a PasswordHasher with the given bcrypt work factor.
// Costs below bcrypt's minimum fall back to the default cost (10).
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h *bcryptHasher) Verify(password, digest string) bool {
	// bcrypt's comparison is constant time with respect to the secret.
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	return err == nil
}
