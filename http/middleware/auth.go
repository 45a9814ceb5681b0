package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drop-service/config"
	"github.com/tnqbao/gau-drop-service/utils"
)

// AdminAuthMiddleware gates administrative routes on a bearer token signed
// with the configured admin secret.
func AdminAuthMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Admin.JWTSecretKey == "" {
			utils.JSON401(c, "Admin access is not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSON401(c, "Unauthorized: missing bearer token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseAdminToken(cfg.Admin.JWTSecretKey, tokenString)
		if err != nil {
			utils.JSON401(c, "Unauthorized: invalid token")
			c.Abort()
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}
