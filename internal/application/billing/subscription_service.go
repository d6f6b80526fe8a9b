// Package billing contains the application services for plans and
// subscriptions, including the tenant-facing quota usage view.
package billing

import (
	"context"
	"errors"
	"time"

	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotaUsage is one kind's usage against its plan limit. Limit is -1 when
// the plan asserts no limit for the kind.
type QuotaUsage struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Limit     int64  `json:"limit"`
	Used      int64  `json:"used"`
	Remaining int64  `json:"remaining"`
}

// CurrentSubscription is the tenant-facing view of the active subscription
type CurrentSubscription struct {
	PlanID    string       `json:"plan_id"`
	PlanName  string       `json:"plan_name"`
	Status    string       `json:"status"`
	Expired   bool         `json:"expired"`
	StartsAt  time.Time    `json:"starts_at"`
	EndsAt    *time.Time   `json:"ends_at,omitempty"`
	Quotas    []QuotaUsage `json:"quotas"`
}

// SubscriptionService manages the subscription lifecycle and serves the
// current-subscription view
type SubscriptionService struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	counter          governanceapp.UsageCounter
	logger           *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	counter governanceapp.UsageCounter,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		counter:          counter,
		logger:           logger,
	}
}

// Purchase starts a new active subscription on the given plan. Any existing
// active subscription is cancelled first so the one-active-row invariant
// holds; its row is kept for billing history.
func (s *SubscriptionService) Purchase(ctx context.Context, orgID uuid.UUID, planID string, endsAt *time.Time) (*billing.Subscription, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, shared.NewDomainError("PLAN_RETIRED", "Plan is no longer available for purchase")
	}

	existing, err := s.subscriptionRepo.FindActiveByOrganization(ctx, orgID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := existing.Cancel("superseded by new subscription"); err != nil {
			return nil, err
		}
		if err := s.subscriptionRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	sub, err := billing.NewSubscription(orgID, plan.ID, endsAt)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("Subscription purchased",
		zap.String("organization_id", orgID.String()),
		zap.String("plan_id", plan.ID),
		zap.String("subscription_id", sub.ID.String()))

	return sub, nil
}

// Cancel cancels the organization's active subscription
func (s *SubscriptionService) Cancel(ctx context.Context, orgID uuid.UUID, reason string) (*billing.Subscription, error) {
	sub, err := s.subscriptionRepo.FindActiveByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := sub.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("Subscription cancelled",
		zap.String("organization_id", orgID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.String("reason", reason))

	return sub, nil
}

// Current returns the active subscription with per-kind usage, or
// shared.ErrNotFound for free-tier organizations without a subscription
func (s *SubscriptionService) Current(ctx context.Context, orgID uuid.UUID) (*CurrentSubscription, error) {
	sub, err := s.subscriptionRepo.FindActiveByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}

	view := &CurrentSubscription{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Status:   string(sub.Status),
		Expired:  sub.IsExpired(time.Now()),
		StartsAt: sub.StartsAt,
		EndsAt:   sub.EndsAt,
		Quotas:   make([]QuotaUsage, 0, len(governance.AllResourceKinds)),
	}

	for _, kind := range governance.AllResourceKinds {
		usage := QuotaUsage{
			Kind:      kind.String(),
			Name:      kind.DisplayName(),
			Limit:     -1,
			Remaining: -1,
		}

		used, err := s.counter.Count(ctx, orgID, kind)
		if err != nil {
			// The view stays available when one count fails; usage shows 0.
			s.logger.Warn("Failed to count usage for quota view",
				zap.String("organization_id", orgID.String()),
				zap.String("kind", kind.String()),
				zap.Error(err))
		}
		usage.Used = used

		if limit := plan.Limit(kind); limit != nil {
			usage.Limit = *limit
			usage.Remaining = *limit - used
			if usage.Remaining < 0 {
				usage.Remaining = 0
			}
		}

		view.Quotas = append(view.Quotas, usage)
	}

	return view, nil
}

// History returns all subscription rows of the organization, newest first
func (s *SubscriptionService) History(ctx context.Context, orgID uuid.UUID) ([]*billing.Subscription, error) {
	return s.subscriptionRepo.ListByOrganization(ctx, orgID)
}
