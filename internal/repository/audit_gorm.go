package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/trongate/trongate/internal/model"
	"gorm.io/gorm"
)

type GormAuditRepo struct {
	db *gorm.DB
}

type auditRecord struct {
	ID           string `gorm:"primaryKey"`
	Domain       string `gorm:"index"`
	Method       string
	Path         string
	IP           string
	UserAgent    string
	RequestBody  string
	StatusCode   int
	ResponseBody string
	LatencyMs    int64
	Context      string // JSON
	CreatedAt    time.Time `gorm:"index"`
}

func (auditRecord) TableName() string { return "audit_logs" }

func NewGormAuditRepo(db *gorm.DB) (*GormAuditRepo, error) {
	if err := db.AutoMigrate(&auditRecord{}); err != nil {
		return nil, err
	}
	return &GormAuditRepo{db: db}, nil
}

func (r *GormAuditRepo) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry == nil {
		return nil
	}
	contextJSON, _ := json.Marshal(entry.Context)
	rec := auditRecord{
		ID:           entry.ID,
		Domain:       entry.Domain,
		Method:       entry.Method,
		Path:         entry.Path,
		IP:           entry.IP,
		UserAgent:    entry.UserAgent,
		RequestBody:  entry.RequestBody,
		StatusCode:   entry.StatusCode,
		ResponseBody: entry.ResponseBody,
		LatencyMs:    entry.LatencyMs,
		Context:      string(contextJSON),
		CreatedAt:    entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *GormAuditRepo) List(ctx context.Context, domain string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Model(&auditRecord{}).Order("created_at DESC").Limit(limit)
	if domain != "" {
		q = q.Where("domain = ?", domain)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var recs []auditRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.AuditLog, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		entry := &model.AuditLog{
			ID:           rec.ID,
			Domain:       rec.Domain,
			Method:       rec.Method,
			Path:         rec.Path,
			IP:           rec.IP,
			UserAgent:    rec.UserAgent,
			RequestBody:  rec.RequestBody,
			StatusCode:   rec.StatusCode,
			ResponseBody: rec.ResponseBody,
			LatencyMs:    rec.LatencyMs,
			CreatedAt:    rec.CreatedAt,
		}
		if rec.Context != "" {
			_ = json.Unmarshal([]byte(rec.Context), &entry.Context)
		}
		out = append(out, entry)
	}
	return out, nil
}
