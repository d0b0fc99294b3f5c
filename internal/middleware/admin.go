package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/pkg/apperrors"
)

const HeaderAdminKey = "X-Admin-Key"

func AdminMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.Auth.AdminKey == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin key not configured"})
			c.Abort()
			return
		}
		provided := c.GetHeader(HeaderAdminKey)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.Auth.AdminKey)) != 1 {
			appErr := apperrors.New(apperrors.ErrUnauthorized, "invalid admin key", nil)
			c.JSON(appErr.HTTPStatus, appErr)
			c.Abort()
			return
		}
		c.Next()
	}
}
