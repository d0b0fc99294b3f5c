package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/middleware"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/service"
)

type NotifyHandler struct {
	notifier *service.NotifyService
}

func NewNotifyHandler(notifier *service.NotifyService) *NotifyHandler {
	return &NotifyHandler{notifier: notifier}
}

// TelegramNotify always answers success once the request shape is valid:
// delivery problems surface only as notificationSent=false.
func (h *NotifyHandler) TelegramNotify(c *gin.Context) {
	tenant := c.MustGet(middleware.ContextTenantKey).(*model.Tenant)

	var req model.TelegramNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	sent, duplicate := h.notifier.Dispatch(c.Request.Context(), tenant, req)
	middleware.AddAuditContext(c, "notify_type", req.Type)
	if req.TransactionID != "" {
		middleware.AddAuditContext(c, "tx_id", req.TransactionID)
	}

	c.JSON(http.StatusOK, model.TelegramNotifyResponse{
		Success:          true,
		NotificationSent: sent,
		Duplicate:        duplicate,
	})
}
