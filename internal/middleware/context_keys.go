package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the caller's user ID in the Gin context.
const userIDKey = contextKey("userID")

// CallerIdentityHeader carries the already-authenticated caller identity.
// Authentication itself is an upstream concern; this service trusts the
// identity injected by the edge in front of it.
const CallerIdentityHeader = "X-User-ID"

// IdentityMiddleware extracts the caller identity header and stores it in the
// Gin context. Requests without an identity are rejected.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(CallerIdentityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// Should not happen if the identity middleware sets it correctly.
		return "", false
	}

	return userID, true
}
