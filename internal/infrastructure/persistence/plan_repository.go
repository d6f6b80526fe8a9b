package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// Create saves a new plan
func (r *GormPlanRepository) Create(ctx context.Context, plan *billing.Plan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing plan
func (r *GormPlanRepository) Update(ctx context.Context, plan *billing.Plan) error {
	result := r.db.WithContext(ctx).Save(plan)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a plan by its slug
func (r *GormPlanRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	var plan billing.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// List returns all plans, optionally only the active ones
func (r *GormPlanRepository) List(ctx context.Context, activeOnly bool) ([]*billing.Plan, error) {
	query := r.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var plans []*billing.Plan
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

var _ billing.PlanRepository = (*GormPlanRepository)(nil)
