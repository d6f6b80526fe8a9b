package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/identity"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormOrganizationRepository implements OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create saves a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *identity.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing organization
func (r *GormOrganizationRepository) Update(ctx context.Context, org *identity.Organization) error {
	result := r.db.WithContext(ctx).Save(org)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FindByCode finds an organization by its unique code
func (r *GormOrganizationRepository) FindByCode(ctx context.Context, code string) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).First(&org, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// List returns a page of organizations with the total count
func (r *GormOrganizationRepository) List(ctx context.Context, offset, limit int) ([]*identity.Organization, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&identity.Organization{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []*identity.Organization
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orgs).Error; err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

var _ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)
