package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create saves a new subscription
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Update updates an existing subscription
func (r *GormSubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	result := r.db.WithContext(ctx).Save(sub)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a subscription by ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindActiveByOrganization returns the single active subscription for an
// organization. A second active row is a data defect and is reported as an
// error rather than silently resolved by picking one.
func (r *GormSubscriptionRepository) FindActiveByOrganization(ctx context.Context, orgID uuid.UUID) (*billing.Subscription, error) {
	var subs []*billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", orgID, billing.SubscriptionStatusActive).
		Limit(2).
		Find(&subs).Error; err != nil {
		return nil, err
	}

	switch len(subs) {
	case 0:
		return nil, shared.ErrNotFound
	case 1:
		return subs[0], nil
	default:
		return nil, fmt.Errorf("organization %s has more than one active subscription", orgID)
	}
}

// ListByOrganization returns all subscriptions of an organization, newest first
func (r *GormSubscriptionRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*billing.Subscription, error) {
	var subs []*billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("starts_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
