package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormDepartmentRepository implements DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// Create saves a new department
func (r *GormDepartmentRepository) Create(ctx context.Context, dept *qms.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

// Update updates an existing department
func (r *GormDepartmentRepository) Update(ctx context.Context, dept *qms.Department) error {
	result := r.db.WithContext(ctx).Save(dept)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a department by ID
func (r *GormDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&qms.Department{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.Department, error) {
	var dept qms.Department
	if err := r.db.WithContext(ctx).First(&dept, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

// ListByOrganization returns a page of an organization's departments with the total count
func (r *GormDepartmentRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Department, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&qms.Department{}).
		Where("organization_id = ?", orgID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var depts []*qms.Department
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&depts).Error; err != nil {
		return nil, 0, err
	}
	return depts, total, nil
}

var _ qms.DepartmentRepository = (*GormDepartmentRepository)(nil)
