package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/tron"
)

type fakeTronClient struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	sends     []tron.TransferRequest
	sendErr   error
	rejectMsg string
	txInfo    map[string]*tron.TransactionInfo
	txErr     error
}

func newFakeTron() *fakeTronClient {
	return &fakeTronClient{
		balances: make(map[string]decimal.Decimal),
		txInfo:   make(map[string]*tron.TransactionInfo),
	}
}

func (f *fakeTronClient) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[address], nil
}

func (f *fakeTronClient) SendTRX(_ context.Context, req tron.TransferRequest) (*tron.TransferResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.rejectMsg != "" {
		return &tron.TransferResult{TxID: "tx-rejected", Message: f.rejectMsg}, nil
	}
	f.sends = append(f.sends, req)
	return &tron.TransferResult{
		TxID:      fmt.Sprintf("tx-%d", len(f.sends)),
		Broadcast: true,
	}, nil
}

func (f *fakeTronClient) GetTransaction(_ context.Context, txID string) (*tron.TransactionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txErr != nil {
		return nil, f.txErr
	}
	if info, ok := f.txInfo[txID]; ok {
		return info, nil
	}
	return &tron.TransactionInfo{TxID: txID}, nil
}

func (f *fakeTronClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeSender) SendMessage(_ context.Context, _, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

type memTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*model.Tenant
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: make(map[string]*model.Tenant)}
}

func (r *memTenantRepo) GetByDomain(_ context.Context, domain string) (*model.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[domain]
	if !ok {
		return nil, repository.ErrTenantNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memTenantRepo) Upsert(_ context.Context, t *model.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.tenants[t.Domain] = &clone
	return nil
}

func (r *memTenantRepo) List(_ context.Context) ([]*model.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memTenantRepo) SetEnabled(_ context.Context, domain string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[domain]
	if !ok {
		return repository.ErrTenantNotFound
	}
	t.Enabled = enabled
	return nil
}

func (r *memTenantRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tenants)), nil
}

func testTenant() *model.Tenant {
	return &model.Tenant{
		Domain:              "a.com",
		WalletAddress:       "TServerWallet",
		PrivateKey:          "cafe01",
		TelegramBotToken:    "bot-token",
		TelegramChatID:      "chat-1",
		AutoFundAmount:      decimal.NewFromInt(13),
		MinBalanceThreshold: decimal.NewFromInt(11),
		Enabled:             true,
	}
}
