package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// BearerAuth resolves the Authorization bearer token and stores the caller
// identity on the context.
func BearerAuth(resolver service.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Missing Authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			unauthorized(c, "Missing bearer token")
			return
		}

		id, err := resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			msg := "Invalid token"
			var appErr *service.Error
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			unauthorized(c, msg)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by BearerAuth.
func CurrentIdentity(c *gin.Context) (*service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*service.Identity)
	return id, ok
}

// SetIdentity is used by tests and internal callers that authenticate
// outside BearerAuth.
func SetIdentity(c *gin.Context, id *service.Identity) {
	c.Set(identityKey, id)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
}
