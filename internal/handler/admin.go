package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/service"
)

type AdminHandler struct {
	store *service.TenantStore
	audit *service.AuditService
}

func NewAdminHandler(store *service.TenantStore, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{store: store, audit: audit}
}

// AdminTenantRequest deliberately has no signing-secret field: secrets are
// provisioned through the per-domain secret slot, never over this channel.
type AdminTenantRequest struct {
	Domain           string `json:"domain" binding:"required"`
	WalletAddress    string `json:"wallet_address"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
	AutoFundSun      int64  `json:"auto_fund_sun"`
	MinBalanceSun    int64  `json:"min_balance_sun"`
	Enabled          *bool  `json:"enabled"`
}

func (h *AdminHandler) UpsertTenant(c *gin.Context) {
	var req AdminTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	tenant := &model.Tenant{
		Domain:              req.Domain,
		WalletAddress:       req.WalletAddress,
		TelegramBotToken:    req.TelegramBotToken,
		TelegramChatID:      req.TelegramChatID,
		AutoFundAmount:      decimal.NewFromInt(req.AutoFundSun),
		MinBalanceThreshold: decimal.NewFromInt(req.MinBalanceSun),
		Enabled:             enabled,
	}
	if err := h.store.Upsert(c.Request.Context(), tenant); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	tenant.PrivateKey = ""
	c.JSON(http.StatusCreated, tenant)
}

func (h *AdminHandler) ListTenants(c *gin.Context) {
	tenants, err := h.store.List(c.Request.Context())
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func (h *AdminHandler) ToggleTenant(c *gin.Context) {
	h.setEnabled(c, nil)
}

func (h *AdminHandler) EnableTenant(c *gin.Context) {
	enabled := true
	h.setEnabled(c, &enabled)
}

func (h *AdminHandler) DisableTenant(c *gin.Context) {
	enabled := false
	h.setEnabled(c, &enabled)
}

func (h *AdminHandler) setEnabled(c *gin.Context, target *bool) {
	domain := c.Param("domain")
	if domain == "" {
		c.Error(apperrors.NewInvalidRequest("domain is required"))
		return
	}

	enabled := false
	if target != nil {
		enabled = *target
	} else {
		// Toggle reads the current flag first; writes themselves are
		// serialized inside the store.
		_, current, err := h.store.Lookup(c.Request.Context(), domain)
		if err != nil {
			c.Error(apperrors.Wrap(err))
			return
		}
		enabled = !current
	}

	err := h.store.SetEnabled(c.Request.Context(), domain, enabled)
	if errors.Is(err, repository.ErrTenantNotFound) {
		c.Error(apperrors.Newf(apperrors.ErrNotFound, "no tenant for domain %s", domain))
		return
	}
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"domain": service.CanonicalDomain(domain), "enabled": enabled})
}

func (h *AdminHandler) ListAudit(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	var fromPtr, toPtr *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest(err.Error()))
			return
		}
		fromPtr = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.Error(apperrors.NewInvalidRequest(err.Error()))
			return
		}
		toPtr = &t
	}

	records, err := h.audit.List(c.Request.Context(), c.Query("domain"), limit, fromPtr, toPtr)
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, records)
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format")
}
