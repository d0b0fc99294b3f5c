package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/pkg/metrics"
	"github.com/trongate/trongate/internal/telegram"
	"github.com/trongate/trongate/internal/tron"
)

var sunPerTRX = decimal.NewFromInt(1_000_000)

// NotifyService formats and ships the outbound Telegram messages. Every
// path is best-effort: a transport failure is logged and reported as a
// false flag, never raised to the caller.
type NotifyService struct {
	sender telegram.Sender
	tron   tron.Client
	dedup  DedupStore
}

func NewNotifyService(sender telegram.Sender, tronClient tron.Client, dedup DedupStore) *NotifyService {
	return &NotifyService{sender: sender, tron: tronClient, dedup: dedup}
}

// NotifyFunding reports a completed funding transfer.
func (s *NotifyService) NotifyFunding(ctx context.Context, tenant *model.Tenant, target string, amountSun decimal.Decimal, txID string) bool {
	if !tenant.Notifiable() {
		logger.Debug("Tenant has no telegram target, skipping funding notification", "domain", tenant.Domain)
		return false
	}
	msg := strings.Join([]string{
		"💸 <b>Funding sent</b>",
		"Domain: " + tenant.Domain,
		"Amount: " + displayTRX(amountSun) + " TRX",
		"Recipient: <code>" + target + "</code>",
		"Tx: <code>" + txID + "</code>",
		"Time: " + time.Now().UTC().Format(time.RFC3339),
	}, "\n")
	return s.send(ctx, tenant, "funding", msg)
}

// Dispatch handles a /telegram-notify request for an admitted tenant.
// Returns (sent, duplicate).
func (s *NotifyService) Dispatch(ctx context.Context, tenant *model.Tenant, req model.TelegramNotifyRequest) (bool, bool) {
	switch req.Type {
	case model.NotifyTypeApprove:
		return s.dispatchApproval(ctx, tenant, req)
	case model.NotifyTypeConnect:
		return s.dispatchConnect(ctx, tenant, req), false
	default:
		// the handler validates the enum; unreachable in practice
		return false, false
	}
}

func (s *NotifyService) dispatchApproval(ctx context.Context, tenant *model.Tenant, req model.TelegramNotifyRequest) (bool, bool) {
	// Never dispatch without an explicit approved=true from the caller.
	if req.Approved == nil || !*req.Approved {
		logger.Info("Approval notification suppressed, not approved", "domain", tenant.Domain)
		return false, false
	}

	// Dedup first: one notification per transaction id, decided and
	// marked in a single atomic step. Ids without identity can't dedup.
	if req.TransactionID != "" {
		first, err := s.dedup.CheckAndMark(ctx, tenant.Domain, req.TransactionID)
		if err != nil {
			// Dedup store trouble leans toward sending: a duplicate
			// message is wasteful, a dropped one is silent.
			logger.Warn("Dedup check failed, proceeding", "domain", tenant.Domain, "error", err)
		} else if !first {
			metrics.Notifications.WithLabelValues("approval", "duplicate").Inc()
			return false, true
		}

		// Best-effort on-chain confirmation. A verification error does
		// not block the message; a confirmed failed transaction does.
		if info, err := s.tron.GetTransaction(ctx, req.TransactionID); err != nil {
			logger.Warn("Approval verification errored, proceeding",
				"domain", tenant.Domain, "tx_id", req.TransactionID, "error", err)
		} else if info.Found && !info.Success {
			logger.Info("Approval notification skipped, transaction failed on-chain",
				"domain", tenant.Domain, "tx_id", req.TransactionID, "contract_ret", info.ContractRet)
			metrics.Notifications.WithLabelValues("approval", "skipped").Inc()
			return false, false
		}
	}

	if !tenant.Notifiable() {
		logger.Debug("Tenant has no telegram target, skipping approval notification", "domain", tenant.Domain)
		return false, false
	}

	msg := strings.Join([]string{
		"✅ <b>Approval confirmed</b>",
		"Domain: " + tenant.Domain,
		"Wallet: <code>" + req.WalletAddress + "</code>",
		"Tx: <code>" + orNA(req.TransactionID) + "</code>",
		"Amount: " + displayTRXPtr(req.Amount) + " TRX",
		"TRX balance: " + decimalOrNA(req.TrxBalance),
		"USDT balance: " + decimalOrNA(req.UsdtBalance),
	}, "\n")
	return s.send(ctx, tenant, "approval", msg), false
}

func (s *NotifyService) dispatchConnect(ctx context.Context, tenant *model.Tenant, req model.TelegramNotifyRequest) bool {
	if !tenant.Notifiable() {
		logger.Debug("Tenant has no telegram target, skipping connect notification", "domain", tenant.Domain)
		return false
	}
	msg := strings.Join([]string{
		"🔌 <b>Wallet connected</b>",
		"Domain: " + tenant.Domain,
		"Wallet: <code>" + req.WalletAddress + "</code>",
		"TRX balance: " + decimalOrNA(req.TrxBalance),
		"USDT balance: " + decimalOrNA(req.UsdtBalance),
	}, "\n")
	return s.send(ctx, tenant, "connect", msg)
}

func (s *NotifyService) send(ctx context.Context, tenant *model.Tenant, kind, text string) bool {
	err := s.sender.SendMessage(ctx, tenant.TelegramBotToken, tenant.TelegramChatID, text)
	if err != nil {
		metrics.Notifications.WithLabelValues(kind, "failed").Inc()
		logger.Error("Telegram delivery failed", "domain", tenant.Domain, "kind", kind, "error", err)
		return false
	}
	metrics.Notifications.WithLabelValues(kind, "sent").Inc()
	return true
}

func displayTRX(amountSun decimal.Decimal) string {
	return amountSun.Div(sunPerTRX).String()
}

func displayTRXPtr(amountSun *decimal.Decimal) string {
	if amountSun == nil {
		return "N/A"
	}
	return displayTRX(*amountSun)
}

func decimalOrNA(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return d.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
