package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/pkg/response"
)

// CtxUserIDKey is the gin context key carrying the authenticated user ID.
// Absent key means the request is anonymous.
const CtxUserIDKey = "userID"

const bearerPrefix = "Bearer "

// bearerToken extracts the token from an Authorization header of the exact
// form "Bearer <token>". Any other scheme is not a bearer credential.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth rejects requests without a valid bearer token and injects the
// resolved user ID into the request context.
func RequireAuth(tokens application.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "missing or malformed authorization header", nil)
			c.Abort()
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a valid bearer token is present and
// treats everything else as anonymous. The request always proceeds.
func OptionalAuth(tokens application.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := tokens.Verify(token); err == nil {
				c.Set(CtxUserIDKey, userID)
			}
		}
		c.Next()
	}
}

// UserID reads the authenticated user ID from the gin context. The second
// return is false for anonymous requests.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
