package governance

import (
	"context"
	"errors"

	"github.com/gestium/backend/internal/domain/governance"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UsageCounter reports the current number of live rows an organization owns
// for a resource kind. Implementations must read the store at call time;
// a stale count directly causes over-admission.
type UsageCounter interface {
	Count(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (int64, error)
}

// CreateAuthorizer is the gate consulted before any resource creation
type CreateAuthorizer interface {
	AuthorizeCreate(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (governance.Decision, error)
}

// QuotaGate decides whether an organization may create one more resource of
// a given kind by comparing current usage against the resolved plan limit.
//
// The check-then-act sequence is a soft limit: two concurrent creates can
// both read current < limit and both proceed. That transient overage is
// accepted; a hard bound would need a serializing lock per organization and
// kind, which the fail-open error policy below already rules out as the
// operating point.
type QuotaGate struct {
	resolver LimitResolver
	counter  UsageCounter
	logger   *zap.Logger
}

// NewQuotaGate creates a new QuotaGate
func NewQuotaGate(resolver LimitResolver, counter UsageCounter, logger *zap.Logger) *QuotaGate {
	return &QuotaGate{
		resolver: resolver,
		counter:  counter,
		logger:   logger,
	}
}

// AuthorizeCreate gates one creation attempt. The error return is non-nil
// only for configuration defects (a kind outside the closed set), which must
// abort the request. Transient governance failures never do: limit
// resolution or counting errors degrade to an allow so that a governance
// outage cannot block business operations.
func (g *QuotaGate) AuthorizeCreate(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (governance.Decision, error) {
	if !kind.IsValid() {
		return governance.Decision{}, governance.ErrUnknownResourceKind
	}

	resolution, err := g.resolver.Resolve(ctx, orgID)
	if err != nil {
		g.logger.Error("Limit resolution failed, allowing create in degraded mode",
			zap.String("organization_id", orgID.String()),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return governance.AllowedDegraded(kind), nil
	}

	if !resolution.HasSubscription() {
		// Default-open free tier: no subscription row means unrestricted,
		// not locked out.
		return governance.Allowed(kind), nil
	}

	if resolution.Expired {
		g.logger.Info("Create denied: subscription expired",
			zap.String("organization_id", orgID.String()),
			zap.String("plan_id", resolution.PlanID),
			zap.String("kind", kind.String()))
		return governance.DeniedSubscriptionExpired(kind), nil
	}

	limit := resolution.Limit(kind)
	if limit == nil {
		// Plan asserts no limit for this kind.
		return governance.Allowed(kind), nil
	}

	current, err := g.counter.Count(ctx, orgID, kind)
	if err != nil {
		// Configuration defects are fatal, never absorbed by fail-open.
		if errors.Is(err, governance.ErrUnknownResourceKind) {
			return governance.Decision{}, err
		}
		g.logger.Error("Usage count failed, allowing create in degraded mode",
			zap.String("organization_id", orgID.String()),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return governance.AllowedDegraded(kind), nil
	}

	if current >= *limit {
		g.logger.Info("Create denied: quota limit reached",
			zap.String("organization_id", orgID.String()),
			zap.String("plan_id", resolution.PlanID),
			zap.String("kind", kind.String()),
			zap.Int64("current", current),
			zap.Int64("limit", *limit))
		return governance.DeniedLimitReached(kind, current, *limit), nil
	}

	return governance.Allowed(kind), nil
}
