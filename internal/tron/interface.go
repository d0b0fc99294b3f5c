package tron

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrBroadcastUnknown marks a transfer whose broadcast outcome could not be
// observed (e.g. timeout after submission). The transfer may or may not be
// on-chain; callers must not conflate this with a clean failure.
var ErrBroadcastUnknown = errors.New("tron: broadcast status unknown")

// Client is the blockchain capability the gateway depends on. Balances and
// amounts are SUN (1 TRX = 1e6 SUN).
type Client interface {
	// GetBalance returns the TRX balance of an account in SUN. A missing
	// account reads as zero.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// SendTRX builds, signs and broadcasts a TRX transfer.
	SendTRX(ctx context.Context, req TransferRequest) (*TransferResult, error)

	// GetTransaction looks up a transaction by id.
	GetTransaction(ctx context.Context, txID string) (*TransactionInfo, error)
}

type TransferRequest struct {
	FromAddress string
	ToAddress   string
	PrivateKey  string // hex, no 0x prefix
	AmountSun   decimal.Decimal
}

type TransferResult struct {
	TxID      string
	Broadcast bool   // node acknowledged the broadcast
	Code      string // node failure code when Broadcast is false
	Message   string
}

type TransactionInfo struct {
	TxID        string
	Found       bool
	Success     bool   // contractRet == SUCCESS
	ContractRet string // SUCCESS, REVERT, OUT_OF_ENERGY, ...
	Raw         map[string]interface{}
}
