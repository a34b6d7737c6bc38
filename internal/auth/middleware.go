package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates access JWTs and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return middleware(TokenTypeAccess)
}

// RefreshMiddleware validates refresh JWTs for the token refresh route
func RefreshMiddleware() gin.HandlerFunc {
	return middleware(TokenTypeRefresh)
}

func middleware(wantType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.TokenType != wantType {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Wrong token type",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// BotSecretMiddleware guards the bot-facing registration and login routes
// with a shared secret. An empty secret disables the check.
func BotSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && c.GetHeader("X-Bot-Secret") != secret {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid bot secret",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's chat id from the context
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}
