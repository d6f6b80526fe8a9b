package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormFindingRepository implements FindingRepository using GORM
type GormFindingRepository struct {
	db *gorm.DB
}

// NewGormFindingRepository creates a new GormFindingRepository
func NewGormFindingRepository(db *gorm.DB) *GormFindingRepository {
	return &GormFindingRepository{db: db}
}

// Create saves a new finding
func (r *GormFindingRepository) Create(ctx context.Context, finding *qms.Finding) error {
	return r.db.WithContext(ctx).Create(finding).Error
}

// Update updates an existing finding
func (r *GormFindingRepository) Update(ctx context.Context, finding *qms.Finding) error {
	result := r.db.WithContext(ctx).Save(finding)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a finding by ID
func (r *GormFindingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&qms.Finding{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a finding by ID
func (r *GormFindingRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.Finding, error) {
	var finding qms.Finding
	if err := r.db.WithContext(ctx).First(&finding, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &finding, nil
}

// ListByAudit returns a page of an audit's findings with the total count
func (r *GormFindingRepository) ListByAudit(ctx context.Context, orgID, auditID uuid.UUID, offset, limit int) ([]*qms.Finding, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&qms.Finding{}).
		Where("organization_id = ? AND audit_id = ?", orgID, auditID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var findings []*qms.Finding
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND audit_id = ?", orgID, auditID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&findings).Error; err != nil {
		return nil, 0, err
	}
	return findings, total, nil
}

var _ qms.FindingRepository = (*GormFindingRepository)(nil)
