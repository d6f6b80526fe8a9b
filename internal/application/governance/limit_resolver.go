// Package governance implements the quota enforcement pipeline: plan limit
// resolution, the quota gate, and the mutation orchestrator that wraps
// resource writes with gating and activity recording.
package governance

import (
	"context"
	"errors"
	"time"

	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolutionStatus distinguishes tenants with and without an active subscription
type ResolutionStatus string

const (
	ResolutionHasSubscription ResolutionStatus = "has_subscription"
	ResolutionNoSubscription  ResolutionStatus = "no_subscription"
)

// Resolution is the outcome of resolving an organization's plan limits.
// With no active subscription the organization runs on the default-open
// free tier: Limits is nil and nothing is blocked. With an expired active
// row, Limits are still populated but Expired is set and callers must deny
// all creation regardless of headroom.
type Resolution struct {
	Status  ResolutionStatus
	Expired bool
	PlanID  string
	Limits  map[governance.ResourceKind]*int64
}

// HasSubscription returns true when an active subscription row was found
func (r *Resolution) HasSubscription() bool {
	return r.Status == ResolutionHasSubscription
}

// Limit returns the limit for a kind; nil means no limit asserted
func (r *Resolution) Limit(kind governance.ResourceKind) *int64 {
	if r.Limits == nil {
		return nil
	}
	return r.Limits[kind]
}

// LimitResolver resolves an organization's effective quota limits
type LimitResolver interface {
	Resolve(ctx context.Context, orgID uuid.UUID) (*Resolution, error)
}

// PlanLimitResolver resolves limits from the organization's single active
// subscription and the plan it references
type PlanLimitResolver struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	logger           *zap.Logger
}

// NewPlanLimitResolver creates a new PlanLimitResolver
func NewPlanLimitResolver(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	logger *zap.Logger,
) *PlanLimitResolver {
	return &PlanLimitResolver{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

// Resolve finds the organization's active subscription and its plan's quota
// table. No active row is a valid state (free tier), not an error. A missing
// plan behind an active subscription, or two concurrent active rows, are
// defects and surface as errors for the caller's degraded-mode handling.
func (r *PlanLimitResolver) Resolve(ctx context.Context, orgID uuid.UUID) (*Resolution, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}

	sub, err := r.subscriptionRepo.FindActiveByOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &Resolution{Status: ResolutionNoSubscription}, nil
		}
		return nil, err
	}

	plan, err := r.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		r.logger.Error("Active subscription references unknown plan",
			zap.String("organization_id", orgID.String()),
			zap.String("plan_id", sub.PlanID),
			zap.Error(err))
		return nil, err
	}

	return &Resolution{
		Status:  ResolutionHasSubscription,
		Expired: sub.IsExpired(time.Now()),
		PlanID:  plan.ID,
		Limits:  plan.Limits(),
	}, nil
}
