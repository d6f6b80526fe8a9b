package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormCorrectiveActionRepository implements CorrectiveActionRepository using GORM
type GormCorrectiveActionRepository struct {
	db *gorm.DB
}

// NewGormCorrectiveActionRepository creates a new GormCorrectiveActionRepository
func NewGormCorrectiveActionRepository(db *gorm.DB) *GormCorrectiveActionRepository {
	return &GormCorrectiveActionRepository{db: db}
}

// Create saves a new corrective action
func (r *GormCorrectiveActionRepository) Create(ctx context.Context, action *qms.CorrectiveAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// Update updates an existing corrective action
func (r *GormCorrectiveActionRepository) Update(ctx context.Context, action *qms.CorrectiveAction) error {
	result := r.db.WithContext(ctx).Save(action)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a corrective action by ID
func (r *GormCorrectiveActionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&qms.CorrectiveAction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a corrective action by ID
func (r *GormCorrectiveActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.CorrectiveAction, error) {
	var action qms.CorrectiveAction
	if err := r.db.WithContext(ctx).First(&action, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// ListByFinding returns a page of a finding's corrective actions with the total count
func (r *GormCorrectiveActionRepository) ListByFinding(ctx context.Context, orgID, findingID uuid.UUID, offset, limit int) ([]*qms.CorrectiveAction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&qms.CorrectiveAction{}).
		Where("organization_id = ? AND finding_id = ?", orgID, findingID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var actions []*qms.CorrectiveAction
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND finding_id = ?", orgID, findingID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}

var _ qms.CorrectiveActionRepository = (*GormCorrectiveActionRepository)(nil)
