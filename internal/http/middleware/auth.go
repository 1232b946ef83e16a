// README: Bearer-token auth middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fareline/internal/infra"
)

const uidKey = "uid"

// Auth verifies the Authorization bearer token and stores the rider id in the
// request context. Requests without a valid token never reach the handler.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok, err := verifier.VerifyToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(uidKey, tok.UID)
		c.Next()
	}
}

// UID returns the authenticated rider id set by Auth.
func UID(c *gin.Context) string {
	return c.GetString(uidKey)
}
