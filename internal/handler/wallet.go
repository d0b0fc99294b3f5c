package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trongate/trongate/internal/middleware"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/service"
	"github.com/trongate/trongate/internal/tron"
)

type WalletHandler struct {
	funding *service.FundingService
	tron    tron.Client
}

func NewWalletHandler(funding *service.FundingService, tronClient tron.Client) *WalletHandler {
	return &WalletHandler{funding: funding, tron: tronClient}
}

func (h *WalletHandler) CheckBalance(c *gin.Context) {
	tenant := c.MustGet(middleware.ContextTenantKey).(*model.Tenant)

	var req model.CheckBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	if !tron.ValidAddress(req.UserAddress) {
		c.Error(apperrors.Newf(apperrors.ErrInvalidAddress, "invalid TRON address: %s", req.UserAddress))
		return
	}

	decision, balance, err := h.funding.Decide(c.Request.Context(), tenant, req.UserAddress)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.CheckBalanceResponse{
		Balance:        balance,
		NeedsFunding:   decision.Needed,
		AutoSendAmount: tenant.AutoFundAmount,
	})
}

func (h *WalletHandler) SendTrx(c *gin.Context) {
	tenant := c.MustGet(middleware.ContextTenantKey).(*model.Tenant)

	var req model.SendTrxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	if !tron.ValidAddress(req.UserAddress) {
		c.Error(apperrors.Newf(apperrors.ErrInvalidAddress, "invalid TRON address: %s", req.UserAddress))
		return
	}

	result, err := h.funding.EnsureFunded(c.Request.Context(), tenant, req.UserAddress)
	if err != nil {
		middleware.AddAuditContext(c, "error", err.Error())
		c.Error(err)
		return
	}

	resp := model.SendTrxResponse{Sent: result.Sent}
	if result.Sent {
		resp.TransactionID = result.TxID
		amount := result.Amount
		resp.Amount = &amount
		middleware.AddAuditContext(c, "tx_id", result.TxID)
		middleware.AddAuditContext(c, "amount_sun", result.Amount.String())
	} else {
		balance := result.Balance
		resp.Balance = &balance
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) TransactionStatus(c *gin.Context) {
	var req model.TransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	info, err := h.tron.GetTransaction(c.Request.Context(), req.TransactionID)
	if err != nil {
		c.Error(apperrors.New(apperrors.ErrUpstream, "failed to look up transaction", err))
		return
	}

	status := "failed"
	if info.Success {
		status = "success"
	}
	c.JSON(http.StatusOK, model.TransactionStatusResponse{
		Status:      status,
		Confirmed:   info.Found,
		Transaction: info.Raw,
	})
}

// ServerInfo returns the tenant's public operational parameters. The
// signing secret never appears here.
func (h *WalletHandler) ServerInfo(c *gin.Context) {
	tenant := c.MustGet(middleware.ContextTenantKey).(*model.Tenant)

	c.JSON(http.StatusOK, model.ServerInfoResponse{
		Domain:               tenant.Domain,
		WalletAddress:        tenant.WalletAddress,
		AutoFundAmount:       tenant.AutoFundAmount,
		MinBalanceThreshold:  tenant.MinBalanceThreshold,
		Enabled:              tenant.Enabled,
		NotificationsEnabled: tenant.Notifiable(),
	})
}
