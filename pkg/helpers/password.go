package helpers

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/identity-service/pkg/apperror"
)

// BcryptHasher hashes passwords with bcrypt. The digest embeds salt and
// cost, so the work factor can change without breaking verification of
// previously stored hashes.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash produces a salted digest from the plain text password.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", apperror.Internal("failed to hash password", err)
	}
	return string(b), nil
}

// Verify compares a bcrypt digest with a plain password. A mismatch is
// false, not an error.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
