package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trongate/trongate/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormTenantRepo struct {
	db *gorm.DB
}

// DB model: one row per domain. The private_key column is the legacy
// embedded secret; the secret slot resolved at request time wins over it.
type tenantRecord struct {
	Domain           string `gorm:"primaryKey"`
	WalletAddress    string
	PrivateKey       string
	TelegramBotToken string
	TelegramChatID   string
	AutoFundSun      int64
	MinBalanceSun    int64
	Enabled          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (tenantRecord) TableName() string { return "tenants" }

func NewGormTenantRepo(db *gorm.DB) (*GormTenantRepo, error) {
	if err := db.AutoMigrate(&tenantRecord{}); err != nil {
		return nil, err
	}
	return &GormTenantRepo{db: db}, nil
}

func (r *GormTenantRepo) GetByDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	var rec tenantRecord
	err := r.db.WithContext(ctx).First(&rec, "domain = ?", domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return toDomain(&rec), nil
}

// Upsert inserts or fully replaces the record for tenant.Domain.
func (r *GormTenantRepo) Upsert(ctx context.Context, t *model.Tenant) error {
	rec := fromDomain(t)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"wallet_address", "private_key", "telegram_bot_token", "telegram_chat_id",
			"auto_fund_sun", "min_balance_sun", "enabled", "updated_at",
		}),
	}).Create(rec).Error
}

func (r *GormTenantRepo) List(ctx context.Context) ([]*model.Tenant, error) {
	var recs []tenantRecord
	if err := r.db.WithContext(ctx).Order("domain").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Tenant, 0, len(recs))
	for i := range recs {
		out = append(out, toDomain(&recs[i]))
	}
	return out, nil
}

func (r *GormTenantRepo) SetEnabled(ctx context.Context, domain string, enabled bool) error {
	res := r.db.WithContext(ctx).Model(&tenantRecord{}).
		Where("domain = ?", domain).
		Updates(map[string]interface{}{"enabled": enabled, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (r *GormTenantRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&tenantRecord{}).Count(&n).Error
	return n, err
}

func toDomain(rec *tenantRecord) *model.Tenant {
	return &model.Tenant{
		Domain:              rec.Domain,
		WalletAddress:       rec.WalletAddress,
		PrivateKey:          rec.PrivateKey,
		TelegramBotToken:    rec.TelegramBotToken,
		TelegramChatID:      rec.TelegramChatID,
		AutoFundAmount:      decimal.NewFromInt(rec.AutoFundSun),
		MinBalanceThreshold: decimal.NewFromInt(rec.MinBalanceSun),
		Enabled:             rec.Enabled,
	}
}

func fromDomain(t *model.Tenant) *tenantRecord {
	now := time.Now().UTC()
	return &tenantRecord{
		Domain:           t.Domain,
		WalletAddress:    t.WalletAddress,
		PrivateKey:       t.PrivateKey,
		TelegramBotToken: t.TelegramBotToken,
		TelegramChatID:   t.TelegramChatID,
		AutoFundSun:      t.AutoFundAmount.IntPart(),
		MinBalanceSun:    t.MinBalanceThreshold.IntPart(),
		Enabled:          t.Enabled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
