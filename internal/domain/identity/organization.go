package identity

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
)

// OrganizationStatus represents the lifecycle status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive   OrganizationStatus = "active"
	OrganizationStatusInactive OrganizationStatus = "inactive"
)

// Organization is the tenant aggregate. Every resource row and every
// activity record in the system is partitioned by its ID.
type Organization struct {
	shared.BaseEntity
	Code         string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string             `gorm:"type:varchar(200);not null"`
	Status       OrganizationStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string             `gorm:"type:varchar(100)"`
	ContactEmail string             `gorm:"type:varchar(200)"`
	ContactPhone string             `gorm:"type:varchar(50)"`
	Address      string             `gorm:"type:text"`
	Notes        string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new active organization
func NewOrganization(code, name string) (*Organization, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	name = strings.TrimSpace(name)

	if len(code) < 2 || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_ORG_CODE", "Organization code must be between 2 and 50 characters")
	}
	if len(name) < 2 || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ORG_NAME", "Organization name must be between 2 and 200 characters")
	}

	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Status:     OrganizationStatusActive,
	}, nil
}

// IsActive returns true if the organization can operate
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}

// Deactivate soft-disables the organization. Resource rows and history are
// preserved; an organization is never hard-deleted while it owns rows.
func (o *Organization) Deactivate() error {
	if o.Status == OrganizationStatusInactive {
		return shared.ErrInvalidState
	}
	o.Status = OrganizationStatusInactive
	o.UpdatedAt = time.Now()
	return nil
}

// Reactivate re-enables a previously deactivated organization
func (o *Organization) Reactivate() error {
	if o.Status == OrganizationStatusActive {
		return shared.ErrInvalidState
	}
	o.Status = OrganizationStatusActive
	o.UpdatedAt = time.Now()
	return nil
}
