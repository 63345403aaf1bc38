package repository

import (
	"context"

	"order17vat/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows the audit history; zero fields match everything.
type AuditFilter struct {
	EntityID string
	Actor    string
	Actions  []string
}

func (f AuditFilter) apply(db *gorm.DB) *gorm.DB {
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.Actor != "" {
		db = db.Where("actor = ?", f.Actor)
	}
	if len(f.Actions) > 0 {
		db = db.Where("action IN ?", f.Actions)
	}
	return db
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	// List returns one page, newest first, and the total matching filter
	List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
	// ListByEntity returns an entity's whole history, oldest first
	ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	if err := filter.apply(GetDB(ctx, r.db).Model(&model.AuditLog{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	err := filter.apply(GetDB(ctx, r.db)).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := AuditFilter{EntityID: entityID}.apply(GetDB(ctx, r.db)).Order("created_at asc").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
