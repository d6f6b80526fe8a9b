package billing

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository defines persistence operations for plans
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
}

// SubscriptionRepository defines persistence operations for subscriptions
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindActiveByOrganization returns the single active subscription row for
	// the organization, shared.ErrNotFound when none exists, and an error when
	// more than one active row is found (a data defect the caller must not
	// paper over by picking one).
	FindActiveByOrganization(ctx context.Context, orgID uuid.UUID) (*Subscription, error)

	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Subscription, error)
}
