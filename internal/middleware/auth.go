package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"splitledger/internal/auth"
)

const (
	// AccountIDKey is the context key for the authenticated account ID.
	AccountIDKey = "account_id"
	// UsernameKey is the context key for the authenticated username.
	UsernameKey = "username"
)

// AccountID extracts the authenticated account ID from the request
// context. Returns empty string if not set.
func AccountID(c *gin.Context) string {
	accountID, _ := c.Value(AccountIDKey).(string)
	return accountID
}

// RequireAuth returns a middleware that validates JWT bearer tokens.
// It extracts the token from the Authorization header, validates it,
// and adds the account ID and username to the request context.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}
