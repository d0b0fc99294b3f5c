package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/middleware"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/service"
)

type VerifyHandler struct {
	store *service.TenantStore
}

func NewVerifyHandler(store *service.TenantStore) *VerifyHandler {
	return &VerifyHandler{store: store}
}

// Health responds without tenant gating and leaks no domain data.
func (h *VerifyHandler) Health(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"tenantsConfigured": count,
	})
}

// VerifyDomain is the lightweight check: it reports authorization and the
// enabled flag without requiring credential completeness, and it tells
// "authorized but disabled" apart from "not authorized".
func (h *VerifyHandler) VerifyDomain(c *gin.Context) {
	domain, ok := service.ResolveDomain(service.RequestMeta{
		Origin:  c.GetHeader("Origin"),
		Host:    c.Request.Host,
		Referer: c.GetHeader("Referer"),
	})
	if !ok {
		c.JSON(http.StatusForbidden, model.VerifyDomainResponse{})
		return
	}
	middleware.AddAuditContext(c, "resolved_domain", domain)

	authorized, enabled, err := h.store.Lookup(c.Request.Context(), domain)
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}

	resp := model.VerifyDomainResponse{Authorized: authorized, Enabled: enabled, Domain: domain}
	status := http.StatusForbidden
	if authorized && enabled {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}
