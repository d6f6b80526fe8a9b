package identity

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationRepository defines persistence operations for organizations
type OrganizationRepository interface {
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindByCode(ctx context.Context, code string) (*Organization, error)
	List(ctx context.Context, offset, limit int) ([]*Organization, int64, error)
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*User, int64, error)
}
