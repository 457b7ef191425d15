package valueobject

import (
	"unicode"

	"github.com/oksasatya/identity-service/pkg/apperror"
)

const minPasswordLength = 8

// Password holds a plaintext password that satisfied the strength policy.
// It only ever lives in memory during registration and password changes;
// callers must not persist or log it.
type Password struct {
	value string
}

// NewPassword enforces the strength policy: minimum length plus uppercase,
// lowercase, digit and symbol. Weak passwords never reach the hasher.
func NewPassword(raw string) (Password, error) {
	if len(raw) < minPasswordLength {
		return Password{}, apperror.BadRequest("password must be at least 8 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return Password{}, apperror.BadRequest("password must contain uppercase, lowercase, number and special character")
	}
	return Password{value: raw}, nil
}

func (p Password) Value() string { return p.value }

// HashedPassword is the opaque digest produced by the hasher; the only
// credential form that is persisted or compared.
type HashedPassword struct {
	value string
}

func NewHashedPassword(digest string) HashedPassword {
	return HashedPassword{value: digest}
}

func (h HashedPassword) Value() string { return h.value }
