package helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/pkg/apperror"
)

// JWTManager signs and verifies HS256 bearer tokens carrying identity
// claims. A token is either valid (signature checks, not expired) or
// invalid; there is no server-side revocation state.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// Claims is the exact wire payload: {sub, email, username, exp, iat}.
// Subject is the stringified user identifier.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewJWTManager(secret string, expirationHours int) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    time.Duration(expirationHours) * time.Hour,
	}
}

// TTL reports the configured token lifetime.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// Generate issues a signed token for a persisted user. Issuing for a user
// without an identifier is an internal invariant breach, not a client error.
func (m *JWTManager) Generate(u *entity.User) (string, error) {
	if !u.Persisted() {
		return "", apperror.Internal("cannot generate token for unpersisted user", nil)
	}
	now := time.Now()
	claims := &Claims{
		Email:    u.Email.Value(),
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", apperror.Internal("failed to sign token", err)
	}
	return s, nil
}

// Verify validates signature and expiry and resolves the subject claim back
// to a user identifier. A subject that survives validation but fails to
// parse is a server-side bug, reported as internal rather than unauthorized.
func (m *JWTManager) Verify(token string) (int64, error) {
	claims, err := m.Decode(token)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperror.Internal("malformed subject claim in valid token", err)
	}
	return id, nil
}

// Decode runs the same validation as Verify but returns the full claim set.
// Meant for inspection, not authorization decisions.
func (m *JWTManager) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthorized, "invalid or expired token", err)
	}
	if !tkn.Valid {
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
