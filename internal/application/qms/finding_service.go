package qms

import (
	"context"
	"fmt"

	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FindingSnapshot is the audited state of a finding
type FindingSnapshot struct {
	AuditID     uuid.UUID `json:"audit_id"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

func snapshotFinding(f *qms.Finding) FindingSnapshot {
	return FindingSnapshot{
		AuditID:     f.AuditID,
		Severity:    string(f.Severity),
		Description: f.Description,
		Status:      string(f.Status),
	}
}

// CreateFindingInput carries the fields for raising a finding
type CreateFindingInput struct {
	AuditID     uuid.UUID
	Severity    qms.FindingSeverity
	Description string
}

// UpdateFindingInput carries the mutable fields of a finding.
// Nil fields are left unchanged.
type UpdateFindingInput struct {
	Severity    *qms.FindingSeverity
	Description *string
}

// FindingService manages audit findings
type FindingService struct {
	repo         qms.FindingRepository
	auditRepo    qms.AuditRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewFindingService creates a new FindingService
func NewFindingService(repo qms.FindingRepository, auditRepo qms.AuditRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *FindingService {
	return &FindingService{repo: repo, auditRepo: auditRepo, orchestrator: orchestrator, logger: logger}
}

// Create raises a finding against an audit, subject to the finding quota
func (s *FindingService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateFindingInput) (*qms.Finding, error) {
	audit, err := s.auditRepo.FindByID(ctx, input.AuditID)
	if err != nil {
		return nil, err
	}
	if audit.OrganizationID != mctx.OrganizationID {
		return nil, shared.ErrNotFound
	}

	finding, err := qms.NewFinding(mctx.OrganizationID, audit.ID, input.Severity, input.Description)
	if err != nil {
		return nil, err
	}

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindFindings,
		fmt.Sprintf("Raised %s finding on audit %q", finding.Severity, audit.Title),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, finding); err != nil {
				return uuid.Nil, nil, err
			}
			return finding.ID, snapshotFinding(finding), nil
		})
	if err != nil {
		return nil, err
	}
	return finding, nil
}

// Update applies a partial update to a finding
func (s *FindingService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateFindingInput) (*qms.Finding, error) {
	finding, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotFinding(finding)

	if input.Severity != nil {
		finding.Severity = *input.Severity
	}
	if input.Description != nil {
		if *input.Description == "" {
			return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Finding description cannot be empty")
		}
		finding.Description = *input.Description
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindFindings, finding.ID,
		"Updated finding",
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, finding); err != nil {
				return nil, err
			}
			return snapshotFinding(finding), nil
		})
	if err != nil {
		return nil, err
	}
	return finding, nil
}

// Close resolves a finding
func (s *FindingService) Close(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.Finding, error) {
	finding, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotFinding(finding)

	if err := finding.Close(); err != nil {
		return nil, err
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindFindings, finding.ID,
		"Closed finding",
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, finding); err != nil {
				return nil, err
			}
			return snapshotFinding(finding), nil
		})
	if err != nil {
		return nil, err
	}
	return finding, nil
}

// Delete soft-deletes a finding
func (s *FindingService) Delete(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) error {
	finding, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return err
	}

	return s.orchestrator.Delete(ctx, mctx, governance.KindFindings, finding.ID,
		"Deleted finding",
		snapshotFinding(finding),
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, finding.ID)
		})
}

// Get returns one finding owned by the organization
func (s *FindingService) Get(ctx context.Context, orgID, id uuid.UUID) (*qms.Finding, error) {
	return s.findOwned(ctx, orgID, id)
}

// ListByAudit returns a page of the findings raised against an audit
func (s *FindingService) ListByAudit(ctx context.Context, orgID, auditID uuid.UUID, offset, limit int) ([]*qms.Finding, int64, error) {
	return s.repo.ListByAudit(ctx, orgID, auditID, offset, limit)
}

func (s *FindingService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*qms.Finding, error) {
	finding, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if finding.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return finding, nil
}
