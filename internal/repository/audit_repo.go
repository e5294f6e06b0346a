package repository

import (
	"context"
	"strings"
	"time"

	"minimarket/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows the audit log listing. Zero values mean "any".
type AuditFilter struct {
	Search string
	Entity model.AuditEntity
	Since  *time.Time
	Page   int
	Limit  int
}

type AuditRepository interface {
	Create(ctx context.Context, e *model.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditEntry, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, e *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) List(ctx context.Context, filter AuditFilter) ([]model.AuditEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditEntry{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(details) LIKE ?", like, like)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.Since != nil {
		q = q.Where("timestamp >= ?", *filter.Since)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var entries []model.AuditEntry
	err := q.Order("timestamp DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}
