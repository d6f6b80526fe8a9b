package qms

import (
	"context"
	"fmt"
	"time"

	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditSnapshot is the audited state of an internal audit
type AuditSnapshot struct {
	Title      string     `json:"title"`
	Scope      string     `json:"scope,omitempty"`
	Status     string     `json:"status"`
	PlannedFor *time.Time `json:"planned_for,omitempty"`
}

func snapshotAudit(a *qms.Audit) AuditSnapshot {
	return AuditSnapshot{
		Title:      a.Title,
		Scope:      a.Scope,
		Status:     string(a.Status),
		PlannedFor: a.PlannedFor,
	}
}

// CreateAuditInput carries the fields for planning an audit
type CreateAuditInput struct {
	Title      string
	Scope      string
	PlannedFor *time.Time
}

// UpdateAuditInput carries the mutable fields of an audit.
// Nil fields are left unchanged.
type UpdateAuditInput struct {
	Title      *string
	Scope      *string
	PlannedFor *time.Time
}

// AuditService manages internal audits
type AuditService struct {
	repo         qms.AuditRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo qms.AuditRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, orchestrator: orchestrator, logger: logger}
}

// Create plans a new audit, subject to the audit quota
func (s *AuditService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateAuditInput) (*qms.Audit, error) {
	audit, err := qms.NewAudit(mctx.OrganizationID, input.Title, input.Scope, input.PlannedFor)
	if err != nil {
		return nil, err
	}

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindAudits,
		fmt.Sprintf("Planned audit %q", audit.Title),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, audit); err != nil {
				return uuid.Nil, nil, err
			}
			return audit.ID, snapshotAudit(audit), nil
		})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// Update applies a partial update to an audit
func (s *AuditService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateAuditInput) (*qms.Audit, error) {
	audit, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotAudit(audit)

	if input.Title != nil {
		if *input.Title == "" {
			return nil, shared.NewDomainError("INVALID_TITLE", "Audit title cannot be empty")
		}
		audit.Title = *input.Title
	}
	if input.Scope != nil {
		audit.Scope = *input.Scope
	}
	if input.PlannedFor != nil {
		audit.PlannedFor = input.PlannedFor
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindAudits, audit.ID,
		fmt.Sprintf("Updated audit %q", audit.Title),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, audit); err != nil {
				return nil, err
			}
			return snapshotAudit(audit), nil
		})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// Start moves a planned audit into execution
func (s *AuditService) Start(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.Audit, error) {
	return s.transition(ctx, mctx, id, "Started audit %q", (*qms.Audit).Start)
}

// Close finishes an in-progress audit
func (s *AuditService) Close(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.Audit, error) {
	return s.transition(ctx, mctx, id, "Closed audit %q", (*qms.Audit).Close)
}

// Delete soft-deletes an audit
func (s *AuditService) Delete(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) error {
	audit, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return err
	}

	return s.orchestrator.Delete(ctx, mctx, governance.KindAudits, audit.ID,
		fmt.Sprintf("Deleted audit %q", audit.Title),
		snapshotAudit(audit),
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, audit.ID)
		})
}

// Get returns one audit owned by the organization
func (s *AuditService) Get(ctx context.Context, orgID, id uuid.UUID) (*qms.Audit, error) {
	return s.findOwned(ctx, orgID, id)
}

// List returns a page of the organization's audits
func (s *AuditService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Audit, int64, error) {
	return s.repo.ListByOrganization(ctx, orgID, offset, limit)
}

func (s *AuditService) transition(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, descFormat string, apply func(*qms.Audit) error) (*qms.Audit, error) {
	audit, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotAudit(audit)

	if err := apply(audit); err != nil {
		return nil, err
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindAudits, audit.ID,
		fmt.Sprintf(descFormat, audit.Title),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, audit); err != nil {
				return nil, err
			}
			return snapshotAudit(audit), nil
		})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

func (s *AuditService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*qms.Audit, error) {
	audit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if audit.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return audit, nil
}
