package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/pkg/metrics"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/service"
)

const (
	ContextTenantKey = "tenant"
	ContextDomainKey = "domain"
)

// GateMiddleware is the tenant authorization gate: it resolves the caller's
// domain from request metadata, loads the tenant fresh from the store and
// admits the request only for an enabled, fully configured tenant. The
// resolved tenant and domain are attached to the context for handlers.
func GateMiddleware(store *service.TenantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := service.RequestMeta{
			Origin:  c.GetHeader("Origin"),
			Host:    c.Request.Host,
			Referer: c.GetHeader("Referer"),
		}

		domain, ok := service.ResolveDomain(meta)
		if !ok {
			AddAuditContext(c, "resolver_inputs", map[string]string{
				"origin": meta.Origin, "host": meta.Host, "referer": meta.Referer,
			})
			reject(c, apperrors.New(apperrors.ErrDomainNotDetected, "could not determine requesting domain", nil))
			return
		}
		c.Set(ContextDomainKey, domain)
		AddAuditContext(c, "resolved_domain", domain)

		tenant, err := store.Resolve(c.Request.Context(), domain)
		if errors.Is(err, repository.ErrTenantNotFound) {
			logger.Warn("Rejected unauthorized domain", "domain", domain, "ip", c.ClientIP())
			reject(c, apperrors.Newf(apperrors.ErrDomainNotAuthorized, "domain %s is not authorized", domain))
			return
		}
		if err != nil {
			reject(c, apperrors.Wrap(err))
			return
		}
		if !tenant.Enabled {
			reject(c, apperrors.Newf(apperrors.ErrDomainDisabled, "domain %s is disabled", domain))
			return
		}

		// Misconfiguration is an operator problem, not an authorization
		// failure: distinct category, 500-class status.
		if !tenant.Usable() {
			logger.Error("Tenant misconfigured", "domain", domain,
				"has_wallet", tenant.WalletAddress != "", "has_key", tenant.PrivateKey != "")
			reject(c, apperrors.Newf(apperrors.ErrTenantMisconfigured, "domain %s is missing wallet or signing key", domain))
			return
		}

		c.Set(ContextTenantKey, tenant)
		c.Next()
	}
}

func reject(c *gin.Context, appErr *apperrors.AppError) {
	metrics.AuthRejects.WithLabelValues(string(appErr.Type)).Inc()
	AddAuditContext(c, "reject_reason", string(appErr.Type))
	c.JSON(appErr.HTTPStatus, appErr)
	c.Abort()
}
