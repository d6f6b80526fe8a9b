package qms

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindingSeverity classifies a finding
type FindingSeverity string

const (
	FindingSeverityObservation FindingSeverity = "observation"
	FindingSeverityMinor       FindingSeverity = "minor"
	FindingSeverityMajor       FindingSeverity = "major"
)

// FindingStatus represents the finding lifecycle
type FindingStatus string

const (
	FindingStatusOpen   FindingStatus = "open"
	FindingStatusClosed FindingStatus = "closed"
)

// Finding is a nonconformity or observation raised during an audit
type Finding struct {
	shared.BaseEntity
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AuditID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Severity       FindingSeverity `gorm:"type:varchar(20);not null"`
	Description    string          `gorm:"type:text;not null"`
	Status         FindingStatus   `gorm:"type:varchar(20);not null;default:'open'"`
	ClosedAt       *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Finding) TableName() string {
	return "findings"
}

// NewFinding raises a new open finding against an audit
func NewFinding(orgID, auditID uuid.UUID, severity FindingSeverity, description string) (*Finding, error) {
	description = strings.TrimSpace(description)
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if auditID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUDIT", "Audit ID cannot be empty")
	}
	switch severity {
	case FindingSeverityObservation, FindingSeverityMinor, FindingSeverityMajor:
	default:
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Invalid finding severity")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Finding description cannot be empty")
	}

	return &Finding{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		AuditID:        auditID,
		Severity:       severity,
		Description:    description,
		Status:         FindingStatusOpen,
	}, nil
}

// Close resolves the finding
func (f *Finding) Close() error {
	if f.Status != FindingStatusOpen {
		return shared.ErrInvalidState
	}
	now := time.Now()
	f.Status = FindingStatusClosed
	f.ClosedAt = &now
	f.UpdatedAt = now
	return nil
}
