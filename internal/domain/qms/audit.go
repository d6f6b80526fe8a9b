package qms

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditStatus represents the internal-audit lifecycle
type AuditStatus string

const (
	AuditStatusPlanned    AuditStatus = "planned"
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusClosed     AuditStatus = "closed"
)

// Audit is a planned or executed internal audit
type Audit struct {
	shared.BaseEntity
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title          string         `gorm:"type:varchar(300);not null"`
	Scope          string         `gorm:"type:text"`
	Status         AuditStatus    `gorm:"type:varchar(20);not null;default:'planned'"`
	PlannedFor     *time.Time     `gorm:"index"`
	ClosedAt       *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Audit) TableName() string {
	return "audits"
}

// NewAudit creates a new planned audit
func NewAudit(orgID uuid.UUID, title, scope string, plannedFor *time.Time) (*Audit, error) {
	title = strings.TrimSpace(title)
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Audit title cannot be empty")
	}

	return &Audit{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		Title:          title,
		Scope:          strings.TrimSpace(scope),
		Status:         AuditStatusPlanned,
		PlannedFor:     plannedFor,
	}, nil
}

// Start moves a planned audit into execution
func (a *Audit) Start() error {
	if a.Status != AuditStatusPlanned {
		return shared.ErrInvalidState
	}
	a.Status = AuditStatusInProgress
	a.UpdatedAt = time.Now()
	return nil
}

// Close finishes the audit
func (a *Audit) Close() error {
	if a.Status != AuditStatusInProgress {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = AuditStatusClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	return nil
}
