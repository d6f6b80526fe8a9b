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

// ActionSnapshot is the audited state of a corrective action
type ActionSnapshot struct {
	FindingID   uuid.UUID  `json:"finding_id"`
	Description string     `json:"description"`
	Responsible string     `json:"responsible,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      string     `json:"status"`
}

func snapshotAction(a *qms.CorrectiveAction) ActionSnapshot {
	return ActionSnapshot{
		FindingID:   a.FindingID,
		Description: a.Description,
		Responsible: a.Responsible,
		DueAt:       a.DueAt,
		Status:      string(a.Status),
	}
}

// CreateActionInput carries the fields for opening a corrective action
type CreateActionInput struct {
	FindingID   uuid.UUID
	Description string
	Responsible string
	DueAt       *time.Time
}

// UpdateActionInput carries the mutable fields of a corrective action.
// Nil fields are left unchanged.
type UpdateActionInput struct {
	Description *string
	Responsible *string
	DueAt       *time.Time
}

// ActionService manages corrective actions
type ActionService struct {
	repo         qms.CorrectiveActionRepository
	findingRepo  qms.FindingRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewActionService creates a new ActionService
func NewActionService(repo qms.CorrectiveActionRepository, findingRepo qms.FindingRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *ActionService {
	return &ActionService{repo: repo, findingRepo: findingRepo, orchestrator: orchestrator, logger: logger}
}

// Create opens a corrective action for a finding, subject to the action quota
func (s *ActionService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateActionInput) (*qms.CorrectiveAction, error) {
	finding, err := s.findingRepo.FindByID(ctx, input.FindingID)
	if err != nil {
		return nil, err
	}
	if finding.OrganizationID != mctx.OrganizationID {
		return nil, shared.ErrNotFound
	}

	action, err := qms.NewCorrectiveAction(mctx.OrganizationID, finding.ID, input.Description, input.Responsible, input.DueAt)
	if err != nil {
		return nil, err
	}

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindActions,
		fmt.Sprintf("Opened corrective action for %s finding", finding.Severity),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, action); err != nil {
				return uuid.Nil, nil, err
			}
			return action.ID, snapshotAction(action), nil
		})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// Update applies a partial update to a corrective action
func (s *ActionService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateActionInput) (*qms.CorrectiveAction, error) {
	action, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotAction(action)

	if input.Description != nil {
		if *input.Description == "" {
			return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Action description cannot be empty")
		}
		action.Description = *input.Description
	}
	if input.Responsible != nil {
		action.Responsible = *input.Responsible
	}
	if input.DueAt != nil {
		action.DueAt = input.DueAt
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindActions, action.ID,
		"Updated corrective action",
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, action); err != nil {
				return nil, err
			}
			return snapshotAction(action), nil
		})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// Start moves the action into execution
func (s *ActionService) Start(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.CorrectiveAction, error) {
	return s.transition(ctx, mctx, id, "Started corrective action", (*qms.CorrectiveAction).Start)
}

// Close completes the action
func (s *ActionService) Close(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.CorrectiveAction, error) {
	return s.transition(ctx, mctx, id, "Closed corrective action", (*qms.CorrectiveAction).Close)
}

// Delete soft-deletes a corrective action
func (s *ActionService) Delete(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) error {
	action, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return err
	}

	return s.orchestrator.Delete(ctx, mctx, governance.KindActions, action.ID,
		"Deleted corrective action",
		snapshotAction(action),
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, action.ID)
		})
}

// Get returns one corrective action owned by the organization
func (s *ActionService) Get(ctx context.Context, orgID, id uuid.UUID) (*qms.CorrectiveAction, error) {
	return s.findOwned(ctx, orgID, id)
}

// ListByFinding returns a page of the actions opened for a finding
func (s *ActionService) ListByFinding(ctx context.Context, orgID, findingID uuid.UUID, offset, limit int) ([]*qms.CorrectiveAction, int64, error) {
	return s.repo.ListByFinding(ctx, orgID, findingID, offset, limit)
}

func (s *ActionService) transition(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, description string, apply func(*qms.CorrectiveAction) error) (*qms.CorrectiveAction, error) {
	action, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotAction(action)

	if err := apply(action); err != nil {
		return nil, err
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindActions, action.ID,
		description,
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, action); err != nil {
				return nil, err
			}
			return snapshotAction(action), nil
		})
	if err != nil {
		return nil, err
	}
	return action, nil
}

func (s *ActionService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*qms.CorrectiveAction, error) {
	action, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if action.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return action, nil
}
