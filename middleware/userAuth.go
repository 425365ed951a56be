package middleware

import (
	"net/http"
	"strings"

	"swapp/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where the authenticated user ID is stored on the Gin
// context.
const ContextUserIDKey = "userID"

// JWTAuthUserMiddleware extracts the authenticated user identity from the
// bearer token and stores it on the context. Credential issuance and account
// management happen in the external auth service; the booking core only
// trusts the subject claim.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// RequesterID returns the authenticated user ID from the context.
func RequesterID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
