package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	appgovernance "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/identity"
	"github.com/gestium/backend/internal/domain/qms"
)

// GormUsageCounter counts live resources per organization for quota checks.
// Soft-deleted rows are excluded by GORM's default scope; disabled users do
// not count against the user quota.
type GormUsageCounter struct {
	db *gorm.DB
}

// NewGormUsageCounter creates a new GormUsageCounter
func NewGormUsageCounter(db *gorm.DB) *GormUsageCounter {
	return &GormUsageCounter{db: db}
}

// Count returns the number of live resources of the given kind owned by the organization
func (c *GormUsageCounter) Count(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (int64, error) {
	query := c.db.WithContext(ctx)

	switch kind {
	case governance.KindUsers:
		query = query.Model(&identity.User{}).
			Where("organization_id = ? AND status = ?", orgID, identity.UserStatusActive)
	case governance.KindDepartments:
		query = query.Model(&qms.Department{}).Where("organization_id = ?", orgID)
	case governance.KindDocuments:
		query = query.Model(&qms.Document{}).Where("organization_id = ?", orgID)
	case governance.KindAudits:
		query = query.Model(&qms.Audit{}).Where("organization_id = ?", orgID)
	case governance.KindFindings:
		query = query.Model(&qms.Finding{}).Where("organization_id = ?", orgID)
	case governance.KindActions:
		query = query.Model(&qms.CorrectiveAction{}).Where("organization_id = ?", orgID)
	default:
		return 0, fmt.Errorf("%w: %q", governance.ErrUnknownResourceKind, kind)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ appgovernance.UsageCounter = (*GormUsageCounter)(nil)
