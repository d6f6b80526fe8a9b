package identity

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// UserRole represents the role of a user within an organization
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleAuditor  UserRole = "auditor"
	UserRoleEmployee UserRole = "employee"
)

// User is a member of an organization and the actor attributed to
// activity records. Disabled users do not count toward the user quota.
type User struct {
	shared.BaseEntity
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"type:varchar(200);not null"`
	Email          string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'employee'"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user in the given organization
func NewUser(orgID uuid.UUID, name, email string, role UserRole) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_USER_NAME", "User name cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if role == "" {
		role = UserRoleEmployee
	}

	return &User{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		Role:           role,
		Status:         UserStatusActive,
	}, nil
}

// IsActive returns true if the user account is enabled
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Disable deactivates the user account
func (u *User) Disable() error {
	if u.Status == UserStatusDisabled {
		return shared.ErrInvalidState
	}
	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
	return nil
}
