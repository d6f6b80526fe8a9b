// Package qms holds the governed business resources of the quality
// management domain. Each type is owned by exactly one organization;
// creation is gated by the quota gate and every lifecycle transition is
// reported to the activity recorder by the application layer.
package qms

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is an organizational unit
type Department struct {
	shared.BaseEntity
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name           string         `gorm:"type:varchar(200);not null"`
	Description    string         `gorm:"type:text"`
	ManagerName    string         `gorm:"type:varchar(200)"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// NewDepartment creates a new department in the given organization
func NewDepartment(orgID uuid.UUID, name, description string) (*Department, error) {
	name = strings.TrimSpace(name)
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Department name cannot be empty")
	}

	return &Department{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		Name:           name,
		Description:    strings.TrimSpace(description),
	}, nil
}

// Rename changes the department name
func (d *Department) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Department name cannot be empty")
	}
	d.Name = name
	d.UpdatedAt = time.Now()
	return nil
}
