// Package activity holds the append-only audit trail: one immutable record
// per mutation, partitioned by organization.
package activity

import (
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action classifies the mutation captured by a record
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid returns true if the action belongs to the closed set
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Record is one immutable audit entry. Records are append-only: they are
// never updated or deleted by normal operation. Total order per organization
// is CreatedAt descending with ID as tie-break.
//
// BeforeState is present for update/delete, AfterState for create/update;
// both hold JSON snapshots of the entity. Actor fields are nil for
// system-initiated mutations.
type Record struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_org_created"`
	EntityKind     string    `gorm:"type:varchar(50);not null;index"`
	EntityID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         Action    `gorm:"type:varchar(20);not null"`
	Description    string    `gorm:"type:text"`
	ActorID        *uuid.UUID `gorm:"type:uuid;index"`
	ActorName      *string    `gorm:"type:varchar(200)"`
	BeforeState    *string    `gorm:"type:jsonb"`
	AfterState     *string    `gorm:"type:jsonb"`
	OriginIP       string     `gorm:"type:varchar(64)"`
	OriginAgent    string     `gorm:"type:varchar(500)"`
	CreatedAt      time.Time  `gorm:"not null;index:idx_activity_org_created"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "activity_records"
}

// NewRecord creates a new activity record with a generated ID and timestamp
func NewRecord(orgID uuid.UUID, entityKind string, entityID uuid.UUID, action Action) (*Record, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if entityKind == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_KIND", "Entity kind cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid activity action")
	}

	return &Record{
		ID:             uuid.New(),
		OrganizationID: orgID,
		EntityKind:     entityKind,
		EntityID:       entityID,
		Action:         action,
		CreatedAt:      time.Now(),
	}, nil
}

// HasActor returns true when the record is attributed to a user
func (r *Record) HasActor() bool {
	return r.ActorID != nil
}
