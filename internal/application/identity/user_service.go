package identity

import (
	"context"
	"fmt"

	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/identity"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserSnapshot is the audited state of a user
type UserSnapshot struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func snapshotUser(u *identity.User) UserSnapshot {
	return UserSnapshot{
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: string(u.Status),
	}
}

// CreateUserInput carries the fields for inviting a user
type CreateUserInput struct {
	Name  string
	Email string
	Role  identity.UserRole
}

// UpdateUserInput carries the mutable fields of a user.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	Name *string
	Role *identity.UserRole
}

// UserService manages organization members. User creation counts toward the
// user quota and goes through the governance orchestrator like any other
// governed resource.
type UserService struct {
	repo         identity.UserRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo identity.UserRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, orchestrator: orchestrator, logger: logger}
}

// Create invites a user into the organization, subject to the user quota
func (s *UserService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateUserInput) (*identity.User, error) {
	user, err := identity.NewUser(mctx.OrganizationID, input.Name, input.Email, input.Role)
	if err != nil {
		return nil, err
	}

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindUsers,
		fmt.Sprintf("Invited user %s", user.Email),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, user); err != nil {
				return uuid.Nil, nil, err
			}
			return user.ID, snapshotUser(user), nil
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to a user
func (s *UserService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateUserInput) (*identity.User, error) {
	user, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotUser(user)

	if input.Name != nil {
		if *input.Name == "" {
			return nil, shared.NewDomainError("INVALID_USER_NAME", "User name cannot be empty")
		}
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindUsers, user.ID,
		fmt.Sprintf("Updated user %s", user.Email),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, err
			}
			return snapshotUser(user), nil
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Disable deactivates a user account. The row is kept; disabled users stop
// counting toward the user quota.
func (s *UserService) Disable(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*identity.User, error) {
	user, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotUser(user)

	if err := user.Disable(); err != nil {
		return nil, err
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindUsers, user.ID,
		fmt.Sprintf("Disabled user %s", user.Email),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, err
			}
			return snapshotUser(user), nil
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns one user owned by the organization
func (s *UserService) Get(ctx context.Context, orgID, id uuid.UUID) (*identity.User, error) {
	return s.findOwned(ctx, orgID, id)
}

// List returns a page of the organization's users
func (s *UserService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*identity.User, int64, error) {
	return s.repo.ListByOrganization(ctx, orgID, offset, limit)
}

func (s *UserService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*identity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
