package middleware

import (
	"net/http"
	"strings"

	"poll-service/internal/admin"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	adminService admin.Service
}

func NewAuthMiddleware(adminService admin.Service) *AuthMiddleware {
	return &AuthMiddleware{
		adminService: adminService,
	}
}

// RequireAdmin rejects requests without a valid admin session token.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		if err := am.adminService.ValidateToken(tokenString); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
