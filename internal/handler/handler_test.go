package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/middleware"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/repository"
	"github.com/trongate/trongate/internal/service"
	"github.com/trongate/trongate/internal/tron"
)

// validTarget is a well-formed base58check TRON address for request bodies
// that pass address validation.
const validTarget = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

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

type fakeTron struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	sends    []tron.TransferRequest
	txInfo   *tron.TransactionInfo
}

func (f *fakeTron) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances == nil {
		return decimal.Zero, nil
	}
	return f.balances[address], nil
}

func (f *fakeTron) SendTRX(_ context.Context, req tron.TransferRequest) (*tron.TransferResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, req)
	return &tron.TransferResult{TxID: "tx-handler-test", Broadcast: true}, nil
}

func (f *fakeTron) GetTransaction(_ context.Context, txID string) (*tron.TransactionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txInfo != nil {
		return f.txInfo, nil
	}
	return &tron.TransactionInfo{TxID: txID, Found: false}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendMessage(_ context.Context, _, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type harness struct {
	router *gin.Engine
	repo   *memTenantRepo
	tron   *fakeTron
	sender *fakeSender
	store  *service.TenantStore
}

const testAdminKey = "test-admin-key"

// newHarness wires the full route table the server binary exposes, minus
// metrics and audit persistence.
func newHarness(tenants ...*model.Tenant) *harness {
	gin.SetMode(gin.TestMode)

	repo := newMemTenantRepo()
	for _, t := range tenants {
		_ = repo.Upsert(context.Background(), t)
	}
	cfg := &config.Config{}
	cfg.Auth.AdminKey = testAdminKey
	store := service.NewTenantStore(repo, service.NewEnvSecretResolver(), cfg)

	ft := &fakeTron{balances: map[string]decimal.Decimal{}}
	fs := &fakeSender{}
	notifier := service.NewNotifyService(fs, ft, service.NewInMemDedupStore())
	funding := service.NewFundingService(ft, notifier)

	verifyHandler := NewVerifyHandler(store)
	walletHandler := NewWalletHandler(funding, ft)
	notifyHandler := NewNotifyHandler(notifier)
	adminHandler := NewAdminHandler(store, nil)

	r := gin.New()
	r.Use(middleware.ErrorHandler())

	r.GET("/health", verifyHandler.Health)
	r.GET("/verify-domain", verifyHandler.VerifyDomain)

	api := r.Group("/api")
	api.Use(middleware.GateMiddleware(store))
	api.POST("/check-balance", walletHandler.CheckBalance)
	api.POST("/send-trx", walletHandler.SendTrx)
	api.POST("/telegram-notify", notifyHandler.TelegramNotify)
	api.POST("/transaction-status", walletHandler.TransactionStatus)
	api.GET("/server-info", walletHandler.ServerInfo)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg))
	admin.POST("/tenants", adminHandler.UpsertTenant)
	admin.GET("/tenants", adminHandler.ListTenants)
	admin.POST("/tenants/:domain/toggle", adminHandler.ToggleTenant)
	admin.POST("/tenants/:domain/enable", adminHandler.EnableTenant)
	admin.POST("/tenants/:domain/disable", adminHandler.DisableTenant)

	return &harness{router: r, repo: repo, tron: ft, sender: fs, store: store}
}

func handlerTenant(domain string) *model.Tenant {
	return &model.Tenant{
		Domain:              domain,
		WalletAddress:       "TServerWallet",
		PrivateKey:          "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291",
		TelegramBotToken:    "bot-token",
		TelegramChatID:      "chat-42",
		AutoFundAmount:      decimal.NewFromInt(13_000_000),
		MinBalanceThreshold: decimal.NewFromInt(11_000_000),
		Enabled:             true,
	}
}

func (h *harness) request(t *testing.T, method, path, origin string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = "gateway.internal"
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return out
}
