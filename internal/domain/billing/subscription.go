package billing

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription binds one organization to one plan for a time window.
// At most one active subscription may exist per organization at any instant;
// a second concurrent active row is a data defect, not a state to merge.
// Rows are never deleted, only transitioned, preserving billing history.
type Subscription struct {
	shared.BaseEntity
	OrganizationID uuid.UUID          `gorm:"type:uuid;not null;index:idx_subscriptions_org"`
	PlanID         string             `gorm:"type:varchar(50);not null"`
	Status         SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_subscriptions_org_status"`
	StartsAt       time.Time          `gorm:"not null"`
	EndsAt         *time.Time
	CancelReason   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewSubscription creates a new active subscription starting now
func NewSubscription(orgID uuid.UUID, planID string, endsAt *time.Time) (*Subscription, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	planID = strings.TrimSpace(strings.ToLower(planID))
	if planID == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_ID", "Plan ID cannot be empty")
	}

	now := time.Now()
	if endsAt != nil && !endsAt.After(now) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Subscription end date must be in the future")
	}

	return &Subscription{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		PlanID:         planID,
		Status:         SubscriptionStatusActive,
		StartsAt:       now,
		EndsAt:         endsAt,
	}, nil
}

// IsActive returns true if the row is in active status. Note that an active
// row may still be past its end date; see IsExpired.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsExpired returns true if the subscription has an end date in the past.
// The status column may lag behind: expiry is determined by the clock, not
// by a background job having flipped the row.
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.EndsAt != nil && s.EndsAt.Before(now)
}

// Cancel transitions the subscription to cancelled
func (s *Subscription) Cancel(reason string) error {
	if s.Status != SubscriptionStatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelReason = strings.TrimSpace(reason)
	if s.EndsAt == nil || s.EndsAt.After(now) {
		s.EndsAt = &now
	}
	s.UpdatedAt = now
	return nil
}

// MarkExpired transitions an active row past its end date to expired status
func (s *Subscription) MarkExpired(now time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return shared.ErrInvalidState
	}
	if !s.IsExpired(now) {
		return shared.NewDomainError("NOT_EXPIRED", "Subscription end date has not passed")
	}
	s.Status = SubscriptionStatusExpired
	s.UpdatedAt = now
	return nil
}
