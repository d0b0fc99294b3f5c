package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/config"
	"github.com/trongate/trongate/internal/model"
	"github.com/trongate/trongate/internal/pkg/logger"
	"github.com/trongate/trongate/internal/repository"
)

// TenantRepo is the durable storage behind the store.
type TenantRepo interface {
	GetByDomain(ctx context.Context, domain string) (*model.Tenant, error)
	Upsert(ctx context.Context, t *model.Tenant) error
	List(ctx context.Context) ([]*model.Tenant, error)
	SetEnabled(ctx context.Context, domain string, enabled bool) error
	Count(ctx context.Context) (int64, error)
}

// TenantStore 租户配置的读写入口。每次授权决策都直接读库（不缓存），
// 管理端修改对下一个请求立即生效。
type TenantStore struct {
	repo    TenantRepo
	secrets SecretResolver
	cfg     *config.Config

	// Admin mutations are serialized to avoid lost updates under
	// concurrent read-modify-write calls.
	writeMu sync.Mutex
}

func NewTenantStore(repo TenantRepo, secrets SecretResolver, cfg *config.Config) *TenantStore {
	return &TenantStore{repo: repo, secrets: secrets, cfg: cfg}
}

// Resolve loads the tenant for a canonical domain and merges the signing
// secret from the secret slot. The slot wins over the embedded legacy
// value. Returns repository.ErrTenantNotFound for unknown domains.
func (s *TenantStore) Resolve(ctx context.Context, domain string) (*model.Tenant, error) {
	tenant, err := s.repo.GetByDomain(ctx, CanonicalDomain(domain))
	if err != nil {
		return nil, err
	}
	if secret := s.secrets.Resolve(tenant.Domain); secret != "" {
		tenant.PrivateKey = secret
	}
	return tenant, nil
}

// Lookup is the lightweight verify-domain check: it reports authorization
// and the enabled flag without requiring credential completeness.
func (s *TenantStore) Lookup(ctx context.Context, domain string) (authorized, enabled bool, err error) {
	tenant, err := s.repo.GetByDomain(ctx, CanonicalDomain(domain))
	if errors.Is(err, repository.ErrTenantNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, tenant.Enabled, nil
}

// Upsert creates or replaces a tenant record. Secrets are never persisted
// through this path unless explicitly supplied (legacy embedding).
func (s *TenantStore) Upsert(ctx context.Context, t *model.Tenant) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	t.Domain = CanonicalDomain(t.Domain)
	if t.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	// The admin channel never carries secrets, so an update without one
	// keeps whatever legacy embedded secret the record already has.
	if t.PrivateKey == "" {
		if existing, err := s.repo.GetByDomain(ctx, t.Domain); err == nil {
			t.PrivateKey = existing.PrivateKey
		}
	}
	s.applyDefaults(t)
	if !t.AutoFundAmount.IsPositive() || !t.MinBalanceThreshold.IsPositive() {
		return fmt.Errorf("auto fund amount and balance threshold must be positive")
	}
	return s.repo.Upsert(ctx, t)
}

func (s *TenantStore) SetEnabled(ctx context.Context, domain string, enabled bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.repo.SetEnabled(ctx, CanonicalDomain(domain), enabled)
}

// List returns all tenants with the embedded secret stripped; the admin
// channel never sees signing material.
func (s *TenantStore) List(ctx context.Context) ([]*model.Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tenants {
		t.PrivateKey = ""
	}
	return tenants, nil
}

func (s *TenantStore) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Domains feeds the dynamic cross-origin policy.
func (s *TenantStore) Domains(ctx context.Context) ([]string, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(tenants))
	for _, t := range tenants {
		if t.Enabled {
			domains = append(domains, t.Domain)
		}
	}
	return domains, nil
}

// Seed upserts the tenants declared in config on startup.
func (s *TenantStore) Seed(ctx context.Context) error {
	for _, tc := range s.cfg.Tenants {
		enabled := true
		if tc.Enabled != nil {
			enabled = *tc.Enabled
		}
		tenant := &model.Tenant{
			Domain:              tc.Domain,
			WalletAddress:       tc.WalletAddress,
			PrivateKey:          tc.PrivateKey,
			TelegramBotToken:    tc.TelegramBotToken,
			TelegramChatID:      tc.TelegramChatID,
			AutoFundAmount:      decimal.NewFromInt(tc.AutoFundSun),
			MinBalanceThreshold: decimal.NewFromInt(tc.MinBalanceSun),
			Enabled:             enabled,
		}
		if err := s.Upsert(ctx, tenant); err != nil {
			return fmt.Errorf("seed tenant %q: %w", tc.Domain, err)
		}
		logger.Info("Seeded tenant from config", "domain", tenant.Domain)
	}
	return nil
}

func (s *TenantStore) applyDefaults(t *model.Tenant) {
	if t.AutoFundAmount.IsZero() && s.cfg != nil {
		t.AutoFundAmount = decimal.NewFromInt(s.cfg.Funding.AutoFundSun)
	}
	if t.MinBalanceThreshold.IsZero() && s.cfg != nil {
		t.MinBalanceThreshold = decimal.NewFromInt(s.cfg.Funding.MinBalanceSun)
	}
}
