package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormAuditRepository implements AuditRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create saves a new audit
func (r *GormAuditRepository) Create(ctx context.Context, audit *qms.Audit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// Update updates an existing audit
func (r *GormAuditRepository) Update(ctx context.Context, audit *qms.Audit) error {
	result := r.db.WithContext(ctx).Save(audit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes an audit by ID
func (r *GormAuditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&qms.Audit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an audit by ID
func (r *GormAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.Audit, error) {
	var audit qms.Audit
	if err := r.db.WithContext(ctx).First(&audit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &audit, nil
}

// ListByOrganization returns a page of an organization's audits with the total count
func (r *GormAuditRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Audit, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&qms.Audit{}).
		Where("organization_id = ?", orgID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var audits []*qms.Audit
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("planned_for DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&audits).Error; err != nil {
		return nil, 0, err
	}
	return audits, total, nil
}

var _ qms.AuditRepository = (*GormAuditRepository)(nil)
