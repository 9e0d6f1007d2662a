package middlewares

import (
	"net/http"
	"strings"

	"puzzleboard/internal/logger"
	"puzzleboard/internal/repositories"
	"puzzleboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionContextKey = "sessionID"
	EmailContextKey   = "adminEmail"
)

// AdminAuthMiddleware enforces a Bearer admin token. The token must verify
// and its embedded session must still exist in the database, so logout
// revokes access before the token expires.
func AdminAuthMiddleware(tokenService *services.TokenService,
	sessionRepo repositories.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		exists, err := sessionRepo.SessionExists(c.Request.Context(), claims.SessionID)
		if err != nil {
			logger.Log.Error("Failed to check admin session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid. Please log in again."})
			c.Abort()
			return
		}

		c.Set(SessionContextKey, claims.SessionID)
		c.Set(EmailContextKey, claims.Email)
		c.Next()
	}
}
