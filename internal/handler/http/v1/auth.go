package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/policy"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

const identityKey = "identity"

// AuthMiddleware - middleware для аутентификации по Bearer-токену.
// Идентичность кладется в контекст запроса, глобального состояния нет.
func AuthMiddleware(authService service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			rawToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if rawToken == "" {
			log.Warn("Authorization token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		identity, err := authService.Identity(c.Request.Context(), rawToken)
		if err != nil {
			log.WithError(err).Warn("Invalid or revoked token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAction - middleware авторизации: сверяет роль из идентичности
// запроса со статической таблицей доступа. Отказ - всегда 403.
func RequireAction(action string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFromContext(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		if !policy.Allowed(identity.Role, action) {
			log.WithFields(logrus.Fields{
				"username": identity.Username,
				"role":     identity.Role,
				"action":   action,
			}).Warn("Access denied by policy")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.Next()
	}
}

// identityFromContext достает идентичность запроса, положенную AuthMiddleware
func identityFromContext(c *gin.Context) *models.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
