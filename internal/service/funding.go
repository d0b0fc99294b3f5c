package service

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/apperrors"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/pkg/metrics"
	"github.com/trongate/trongate/internal/tron"
)

// FundingService runs the check-then-fund sequence against the chain.
type FundingService struct {
	tron     tron.Client
	notifier *NotifyService

	// One lock per (tenant, target) pair so two concurrent requests
	// cannot both observe "balance insufficient" and double-fund.
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

type FundingResult struct {
	Sent    bool
	Balance decimal.Decimal // target balance observed (SUN)
	Amount  decimal.Decimal
	TxID    string
}

func NewFundingService(tronClient tron.Client, notifier *NotifyService) *FundingService {
	return &FundingService{
		tron:     tronClient,
		notifier: notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Decide reports whether a target needs funding without acting on it.
func (s *FundingService) Decide(ctx context.Context, tenant *model.Tenant, target string) (*model.FundingDecision, decimal.Decimal, error) {
	balance, err := s.tron.GetBalance(ctx, target)
	if err != nil {
		return nil, decimal.Zero, apperrors.New(apperrors.ErrUpstream, "failed to query target balance", err)
	}
	decision := &model.FundingDecision{Amount: tenant.AutoFundAmount}
	if balance.GreaterThanOrEqual(tenant.MinBalanceThreshold) {
		decision.Reason = "balance above threshold"
	} else {
		decision.Needed = true
		decision.Reason = "balance below threshold"
	}
	return decision, balance, nil
}

// EnsureFunded funds target with exactly tenant.AutoFundAmount when its
// balance is below the tenant threshold. Already-funded targets are a
// no-op, not an error. No retries anywhere on this path.
func (s *FundingService) EnsureFunded(ctx context.Context, tenant *model.Tenant, target string) (*FundingResult, error) {
	unlock := s.lock(tenant.Domain + ":" + target)
	defer unlock()

	decision, balance, err := s.Decide(ctx, tenant, target)
	if err != nil {
		return nil, err
	}
	if !decision.Needed {
		metrics.FundingTransfers.WithLabelValues("skipped").Inc()
		return &FundingResult{Sent: false, Balance: balance}, nil
	}

	serverBalance, err := s.tron.GetBalance(ctx, tenant.WalletAddress)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrUpstream, "failed to query server wallet balance", err)
	}
	if serverBalance.LessThan(tenant.AutoFundAmount) {
		metrics.FundingTransfers.WithLabelValues("insufficient").Inc()
		return nil, apperrors.New(apperrors.ErrInsufficientFunds, "server wallet balance too low to fund", nil).
			WithDetails(map[string]interface{}{
				"serverBalance": serverBalance,
				"required":      tenant.AutoFundAmount,
			})
	}

	result, err := s.tron.SendTRX(ctx, tron.TransferRequest{
		FromAddress: tenant.WalletAddress,
		ToAddress:   target,
		PrivateKey:  tenant.PrivateKey,
		AmountSun:   tenant.AutoFundAmount,
	})
	if err != nil {
		if errors.Is(err, tron.ErrBroadcastUnknown) {
			metrics.FundingTransfers.WithLabelValues("unknown").Inc()
			return nil, apperrors.New(apperrors.ErrTransferStatusUnknown,
				"transfer broadcast outcome unknown, do not retry blindly", err)
		}
		metrics.FundingTransfers.WithLabelValues("failed").Inc()
		return nil, apperrors.New(apperrors.ErrTransferFailed, "transfer failed", err)
	}
	if !result.Broadcast {
		metrics.FundingTransfers.WithLabelValues("rejected").Inc()
		return nil, apperrors.Newf(apperrors.ErrTransferFailed,
			"node rejected broadcast: %s %s", result.Code, result.Message)
	}

	metrics.FundingTransfers.WithLabelValues("sent").Inc()
	logger.Info("Funding transfer sent",
		"domain", tenant.Domain,
		"target", target,
		"amount_sun", tenant.AutoFundAmount.String(),
		"tx_id", result.TxID,
	)

	// Transfer already succeeded on-chain; notification is best-effort
	// and must not fail the funding call.
	if s.notifier != nil {
		s.notifier.NotifyFunding(ctx, tenant, target, tenant.AutoFundAmount, result.TxID)
	}

	return &FundingResult{
		Sent:    true,
		Balance: balance,
		Amount:  tenant.AutoFundAmount,
		TxID:    result.TxID,
	}, nil
}

func (s *FundingService) lock(key string) func() {
	s.lockMu.Lock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	s.lockMu.Unlock()
	mu.Lock()
	return mu.Unlock
}
