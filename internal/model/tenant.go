package model

import "github.com/shopspring/decimal"

// Tenant 代表一个已授权的站点 (一个注册域名一条记录)
type Tenant struct {
	// Canonical key: lowercase, no leading "www."
	Domain string `json:"domain"`

	// Public wallet the gateway funds users from.
	WalletAddress string `json:"wallet_address"`

	// Signing secret for the wallet. Resolved from the per-domain secret
	// slot at authorization time; a value stored here is the legacy
	// embedded path and loses to the slot.
	PrivateKey string `json:"private_key,omitempty"`

	// Telegram target. Both empty disables notifications for the tenant.
	TelegramBotToken string `json:"telegram_bot_token,omitempty"`
	TelegramChatID   string `json:"telegram_chat_id,omitempty"`

	// Amounts in SUN (1 TRX = 1e6 SUN).
	AutoFundAmount      decimal.Decimal `json:"auto_fund_amount"`
	MinBalanceThreshold decimal.Decimal `json:"min_balance_threshold"`

	Enabled bool `json:"enabled"`
}

// Usable reports whether gated wallet operations may run for the tenant.
// The private key must already be merged from the secret resolver.
func (t *Tenant) Usable() bool {
	return t != nil && t.WalletAddress != "" && t.PrivateKey != ""
}

// Notifiable reports whether the tenant has a Telegram target configured.
func (t *Tenant) Notifiable() bool {
	return t != nil && t.TelegramBotToken != "" && t.TelegramChatID != ""
}

// FundingDecision 资金检查的瞬时结果，不落库
type FundingDecision struct {
	Needed bool            `json:"needed"`
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
}
