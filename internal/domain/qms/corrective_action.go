package qms

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionStatus represents the corrective-action lifecycle
type ActionStatus string

const (
	ActionStatusOpen       ActionStatus = "open"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusClosed     ActionStatus = "closed"
)

// CorrectiveAction is a remediation task opened against a finding
type CorrectiveAction struct {
	shared.BaseEntity
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index"`
	FindingID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Description    string       `gorm:"type:text;not null"`
	Responsible    string       `gorm:"type:varchar(200)"`
	DueAt          *time.Time   `gorm:"index"`
	Status         ActionStatus `gorm:"type:varchar(20);not null;default:'open'"`
	ClosedAt       *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CorrectiveAction) TableName() string {
	return "corrective_actions"
}

// NewCorrectiveAction opens a new corrective action for a finding
func NewCorrectiveAction(orgID, findingID uuid.UUID, description, responsible string, dueAt *time.Time) (*CorrectiveAction, error) {
	description = strings.TrimSpace(description)
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if findingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FINDING", "Finding ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Action description cannot be empty")
	}

	return &CorrectiveAction{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		FindingID:      findingID,
		Description:    description,
		Responsible:    strings.TrimSpace(responsible),
		DueAt:          dueAt,
		Status:         ActionStatusOpen,
	}, nil
}

// Start moves the action into execution
func (a *CorrectiveAction) Start() error {
	if a.Status != ActionStatusOpen {
		return shared.ErrInvalidState
	}
	a.Status = ActionStatusInProgress
	a.UpdatedAt = time.Now()
	return nil
}

// Close completes the action
func (a *CorrectiveAction) Close() error {
	if a.Status == ActionStatusClosed {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = ActionStatusClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	return nil
}

// IsOverdue reports whether the action is past due and not closed
func (a *CorrectiveAction) IsOverdue(now time.Time) bool {
	return a.Status != ActionStatusClosed && a.DueAt != nil && a.DueAt.Before(now)
}
