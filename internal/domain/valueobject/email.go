package valueobject

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/identity-service/pkg/apperror"
)

var emailValidator = validator.New()

// Email is a validated, immutable email address.
type Email struct {
	value string
}

// NewEmail validates the raw address and wraps it. Rejects empty or
// malformed input with a bad-request error.
func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Email{}, apperror.BadRequest("email is required")
	}
	if err := emailValidator.Var(raw, "email"); err != nil {
		return Email{}, apperror.BadRequest("invalid email format")
	}
	return Email{value: raw}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }
