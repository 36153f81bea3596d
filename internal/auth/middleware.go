package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key carrying the authenticated user id.
const ContextUserKey = "user_id"

// SessionChecker reports the user's currently stored token.
type SessionChecker interface {
	Get(ctx context.Context, userID int) (string, error)
}

// Middleware rejects requests whose bearer token fails verification or does
// not match the token stored for the user in the session store.
func Middleware(tokens *TokenManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Failed to authenticate token"})
			return
		}

		stored, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || stored != tokenString {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired or invalid"})
			return
		}

		c.Set(ContextUserKey, claims.UserID)
		c.Next()
	}
}
