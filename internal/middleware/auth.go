package middleware

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "user_id"
	ContextPrincipal = "principal"
)

// AuthMiddleware validates the bearer session token and stores the caller's
// Principal in the gin context
func AuthMiddleware(jwtSecret string, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			unauthorized(c)
			return
		}

		claims, err := utils.ParseJWT(strings.TrimSpace(tokenString), jwtSecret)
		if err != nil {
			logger.Debug("Rejected session token", "path", c.Request.URL.Path, "error", err)
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextPrincipal, services.Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks the capability. Must run
// after AuthMiddleware.
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok || !principal.Can(capability) {
			unauthorized(c)
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller set by AuthMiddleware
func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	value, exists := c.Get(ContextPrincipal)
	if !exists {
		return services.Principal{}, false
	}
	principal, ok := value.(services.Principal)
	return principal, ok
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
}
