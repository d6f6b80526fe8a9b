// Package identity contains the application services for organizations and
// users. Organization mutations are platform-operator actions: they are not
// quota-gated, but they are still written to the activity trail.
package identity

import (
	"context"
	"fmt"

	activityapp "github.com/gestium/backend/internal/application/activity"
	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity kind used for organization records in the activity trail. Not a
// governed resource kind: organizations are not subject to quotas.
const organizationEntityKind = "organizaciones"

// OrganizationSnapshot is the audited state of an organization
type OrganizationSnapshot struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func snapshotOrganization(o *identity.Organization) OrganizationSnapshot {
	return OrganizationSnapshot{
		Code:   o.Code,
		Name:   o.Name,
		Status: string(o.Status),
	}
}

// OrganizationService manages organizations (platform operator surface)
type OrganizationService struct {
	repo     identity.OrganizationRepository
	recorder *activityapp.Recorder
	logger   *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(repo identity.OrganizationRepository, recorder *activityapp.Recorder, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{repo: repo, recorder: recorder, logger: logger}
}

// Create registers a new organization at signup
func (s *OrganizationService) Create(ctx context.Context, code, name string, actor *activityapp.Actor) (*identity.Organization, error) {
	org, err := identity.NewOrganization(code, name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activityapp.Entry{
		OrganizationID: org.ID,
		EntityKind:     organizationEntityKind,
		EntityID:       org.ID,
		Action:         activity.ActionCreate,
		Description:    fmt.Sprintf("Registered organization %q", org.Name),
		Actor:          actor,
		After:          snapshotOrganization(org),
	})

	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("code", org.Code))
	return org, nil
}

// Deactivate soft-disables an organization. Rows it owns are preserved.
func (s *OrganizationService) Deactivate(ctx context.Context, id uuid.UUID, actor *activityapp.Actor) (*identity.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := snapshotOrganization(org)

	if err := org.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activityapp.Entry{
		OrganizationID: org.ID,
		EntityKind:     organizationEntityKind,
		EntityID:       org.ID,
		Action:         activity.ActionUpdate,
		Description:    fmt.Sprintf("Deactivated organization %q", org.Name),
		Actor:          actor,
		Before:         before,
		After:          snapshotOrganization(org),
	})

	return org, nil
}

// Get returns one organization
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of organizations
func (s *OrganizationService) List(ctx context.Context, offset, limit int) ([]*identity.Organization, int64, error) {
	return s.repo.List(ctx, offset, limit)
}
