package governance

import (
	"context"

	activityapp "github.com/gestium/backend/internal/application/activity"
	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MutationRecorder is the fail-silent activity recorder consumed by the
// orchestrator
type MutationRecorder interface {
	Record(ctx context.Context, entry activityapp.Entry) (uuid.UUID, bool)
}

// MutationContext carries the request-scoped attribution for a mutation:
// the owning organization, the acting user (nil for system-initiated
// mutations), and the request origin.
type MutationContext struct {
	OrganizationID uuid.UUID
	Actor          *activityapp.Actor
	OriginIP       string
	OriginAgent    string
}

// CreateFunc performs the primary create and returns the new entity's ID and
// its snapshot for the activity record
type CreateFunc func(ctx context.Context) (uuid.UUID, any, error)

// UpdateFunc performs the primary update and returns the entity's snapshot
// after the write
type UpdateFunc func(ctx context.Context) (any, error)

// DeleteFunc performs the primary delete
type DeleteFunc func(ctx context.Context) error

// Orchestrator is the single call site pattern for governed mutations: a
// create is gated before the write, and every create/update/delete is
// recorded in the activity trail strictly after the write commits. If the
// primary write fails, no record is produced; if recording fails, the write
// stands and the failure is swallowed by the recorder.
type Orchestrator struct {
	gate     CreateAuthorizer
	recorder MutationRecorder
	logger   *zap.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(gate CreateAuthorizer, recorder MutationRecorder, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gate:     gate,
		recorder: recorder,
		logger:   logger,
	}
}

// Create gates the attempt, runs the write if allowed, and records the
// result with an after snapshot only. A denial is returned as a
// *governance.QuotaDeniedError and nothing is written.
func (o *Orchestrator) Create(ctx context.Context, mctx MutationContext, kind governance.ResourceKind, description string, write CreateFunc) (governance.Decision, error) {
	decision, err := o.gate.AuthorizeCreate(ctx, mctx.OrganizationID, kind)
	if err != nil {
		return governance.Decision{}, err
	}
	if !decision.IsAllowed() {
		return decision, &governance.QuotaDeniedError{Decision: decision}
	}

	entityID, after, err := write(ctx)
	if err != nil {
		return decision, err
	}

	o.recorder.Record(ctx, activityapp.Entry{
		OrganizationID: mctx.OrganizationID,
		EntityKind:     kind.String(),
		EntityID:       entityID,
		Action:         activity.ActionCreate,
		Description:    description,
		Actor:          mctx.Actor,
		After:          after,
		OriginIP:       mctx.OriginIP,
		OriginAgent:    mctx.OriginAgent,
	})

	return decision, nil
}

// Update runs the write and records it with before and after snapshots.
// The caller fetches the before state prior to mutating.
func (o *Orchestrator) Update(ctx context.Context, mctx MutationContext, kind governance.ResourceKind, entityID uuid.UUID, description string, before any, write UpdateFunc) error {
	after, err := write(ctx)
	if err != nil {
		return err
	}

	o.recorder.Record(ctx, activityapp.Entry{
		OrganizationID: mctx.OrganizationID,
		EntityKind:     kind.String(),
		EntityID:       entityID,
		Action:         activity.ActionUpdate,
		Description:    description,
		Actor:          mctx.Actor,
		Before:         before,
		After:          after,
		OriginIP:       mctx.OriginIP,
		OriginAgent:    mctx.OriginAgent,
	})

	return nil
}

// Delete runs the write and records it with a before snapshot only
func (o *Orchestrator) Delete(ctx context.Context, mctx MutationContext, kind governance.ResourceKind, entityID uuid.UUID, description string, before any, write DeleteFunc) error {
	if err := write(ctx); err != nil {
		return err
	}

	o.recorder.Record(ctx, activityapp.Entry{
		OrganizationID: mctx.OrganizationID,
		EntityKind:     kind.String(),
		EntityID:       entityID,
		Action:         activity.ActionDelete,
		Description:    description,
		Actor:          mctx.Actor,
		Before:         before,
		OriginIP:       mctx.OriginIP,
		OriginAgent:    mctx.OriginAgent,
	})

	return nil
}
