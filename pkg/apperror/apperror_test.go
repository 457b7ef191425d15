package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("email already registered")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("invalid credentials")))

	// unclassified errors are internal faults
	assert.Equal(t, KindInternal, KindOf(errors.New("driver: bad connection")))

	// wrapped taxonomy errors keep their kind
	wrapped := fmt.Errorf("login: %w", Forbidden("account is not active"))
	assert.Equal(t, KindForbidden, KindOf(wrapped))
}

func TestPublicMessageNeverLeaksCause(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.5")
	err := Internal("failed to save user", cause)

	assert.Equal(t, "internal server error", PublicMessage(err))
	// the cause stays available for logging
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestPublicMessageForClientErrors(t *testing.T) {
	assert.Equal(t, "username already taken", PublicMessage(Conflict("username already taken")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw driver text")))
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := Wrap(KindUnauthorized, "invalid or expired token", errors.New("signature is invalid"))
	assert.True(t, errors.Is(err, Unauthorized("anything")))
	assert.False(t, errors.Is(err, Conflict("anything")))
}
