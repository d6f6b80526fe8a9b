// Package qms contains the application services for the governed business
// resources. Every service routes its mutations through the governance
// orchestrator: creates are quota-gated, and all writes land in the
// activity trail.
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

// DepartmentSnapshot is the audited state of a department
type DepartmentSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ManagerName string `json:"manager_name,omitempty"`
}

func snapshotDepartment(d *qms.Department) DepartmentSnapshot {
	return DepartmentSnapshot{
		Name:        d.Name,
		Description: d.Description,
		ManagerName: d.ManagerName,
	}
}

// CreateDepartmentInput carries the fields for creating a department
type CreateDepartmentInput struct {
	Name        string
	Description string
	ManagerName string
}

// UpdateDepartmentInput carries the mutable fields of a department.
// Nil fields are left unchanged.
type UpdateDepartmentInput struct {
	Name        *string
	Description *string
	ManagerName *string
}

// DepartmentService manages departments
type DepartmentService struct {
	repo         qms.DepartmentRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(repo qms.DepartmentRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, orchestrator: orchestrator, logger: logger}
}

// Create creates a department, subject to the department quota
func (s *DepartmentService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateDepartmentInput) (*qms.Department, error) {
	dept, err := qms.NewDepartment(mctx.OrganizationID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	dept.ManagerName = input.ManagerName

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindDepartments,
		fmt.Sprintf("Created department %q", dept.Name),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, dept); err != nil {
				return uuid.Nil, nil, err
			}
			return dept.ID, snapshotDepartment(dept), nil
		})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// Update applies a partial update to a department
func (s *DepartmentService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateDepartmentInput) (*qms.Department, error) {
	dept, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotDepartment(dept)

	if input.Name != nil {
		if err := dept.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		dept.Description = *input.Description
	}
	if input.ManagerName != nil {
		dept.ManagerName = *input.ManagerName
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindDepartments, dept.ID,
		fmt.Sprintf("Updated department %q", dept.Name),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, dept); err != nil {
				return nil, err
			}
			return snapshotDepartment(dept), nil
		})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// Delete soft-deletes a department
func (s *DepartmentService) Delete(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) error {
	dept, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return err
	}

	return s.orchestrator.Delete(ctx, mctx, governance.KindDepartments, dept.ID,
		fmt.Sprintf("Deleted department %q", dept.Name),
		snapshotDepartment(dept),
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, dept.ID)
		})
}

// Get returns one department owned by the organization
func (s *DepartmentService) Get(ctx context.Context, orgID, id uuid.UUID) (*qms.Department, error) {
	return s.findOwned(ctx, orgID, id)
}

// List returns a page of the organization's departments
func (s *DepartmentService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Department, int64, error) {
	return s.repo.ListByOrganization(ctx, orgID, offset, limit)
}

func (s *DepartmentService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*qms.Department, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Cross-tenant IDs are indistinguishable from missing ones.
	if dept.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return dept, nil
}
