package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rakshi2609/Dr-Help-2/internal/auth"
	"github.com/Rakshi2609/Dr-Help-2/internal/httperr"
)

// identityKey is where RequireAuth stores the resolved caller identity on the
// gin context.
const identityKey = "identity"

// RequireAuth extracts the bearer token, verifies signature and expiry, and
// attaches the resolved identity. No handler code runs when verification
// fails, and no database is touched here: handlers needing the persisted
// profile fetch it themselves.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			httperr.Respond(c, httperr.ErrAuthentication)
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httperr.Respond(c, httperr.ErrAuthentication)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole rejects callers whose resolved role differs from required.
// A valid token for the wrong role is an authorization failure, never a
// silent pass-through.
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Caller(c)
		if !ok {
			httperr.Respond(c, httperr.ErrAuthentication)
			return
		}
		if identity.Role != required {
			httperr.Respond(c, httperr.ErrAuthorization)
			return
		}
		c.Next()
	}
}

// Caller returns the identity attached by RequireAuth.
func Caller(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
