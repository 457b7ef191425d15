package application

import (
	"time"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// PasswordHasher is the one-way hashing capability the use cases need.
// Verify reports a mismatch as false, never as an error.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenService signs and verifies bearer tokens for persisted users.
type TokenService interface {
	Generate(u *entity.User) (string, error)
	Verify(token string) (int64, error)
	TTL() time.Duration
}
