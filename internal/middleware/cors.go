package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/service"
)

// OriginAllowed is the cross-origin policy as a pure predicate: an origin
// is permitted when its canonical host matches a registered domain. One
// domain therefore covers its http/https and www/non-www variants. An
// absent origin is provisionally allowed here — non-browser clients omit
// it — but such requests still face the authorization gate.
func OriginAllowed(origin string, domains []string) bool {
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := service.CanonicalDomain(u.Hostname())
	for _, d := range domains {
		if host == d {
			return true
		}
	}
	return false
}

// CORSMiddleware evaluates the origin policy against the current tenant
// set on every request, so admin edits apply without restart.
func CORSMiddleware(store *service.TenantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		domains, err := store.Domains(c.Request.Context())
		if err != nil {
			logger.Error("Failed to load domains for CORS policy", "error", err)
			domains = nil
		}

		if !OriginAllowed(origin, domains) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			// Non-preflight: no CORS headers, the browser blocks the
			// response; the gate still decides the request itself.
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
