// Package billing holds plans and subscriptions: the commercial side of
// resource governance. Quota enforcement itself lives in the governance
// and application/governance packages.
package billing

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Plan is a named quota template. Each governed resource kind maps to one
// nullable max column; a NULL column asserts no limit for that kind.
// Plans referenced by live subscriptions are immutable except for
// administrative correction; retiring a plan leaves existing subscriptions
// untouched.
type Plan struct {
	ID              string          `gorm:"type:varchar(50);primaryKey"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	MaxUsers        *int64          `gorm:"column:max_users"`
	MaxDepartments  *int64          `gorm:"column:max_departments"`
	MaxDocuments    *int64          `gorm:"column:max_documents"`
	MaxAudits       *int64          `gorm:"column:max_audits"`
	MaxFindings     *int64          `gorm:"column:max_findings"`
	MaxActions      *int64          `gorm:"column:max_actions"`
	Active          bool            `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a new active plan
func NewPlan(id, name string, price decimal.Decimal) (*Plan, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	name = strings.TrimSpace(name)

	if id == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_ID", "Plan ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PLAN_PRICE", "Plan price cannot be negative")
	}

	now := time.Now()
	return &Plan{
		ID:        id,
		Name:      name,
		Price:     price,
		Currency:  "EUR",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Limit returns the quota limit for a resource kind. A nil result means the
// plan asserts no limit for that kind and the gate must not block on it.
func (p *Plan) Limit(kind governance.ResourceKind) *int64 {
	switch kind {
	case governance.KindUsers:
		return p.MaxUsers
	case governance.KindDepartments:
		return p.MaxDepartments
	case governance.KindDocuments:
		return p.MaxDocuments
	case governance.KindAudits:
		return p.MaxAudits
	case governance.KindFindings:
		return p.MaxFindings
	case governance.KindActions:
		return p.MaxActions
	default:
		return nil
	}
}

// SetLimit sets the quota limit for a resource kind. A nil limit removes
// the cap for that kind.
func (p *Plan) SetLimit(kind governance.ResourceKind, limit *int64) error {
	if limit != nil && *limit < 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Quota limit cannot be negative")
	}

	switch kind {
	case governance.KindUsers:
		p.MaxUsers = limit
	case governance.KindDepartments:
		p.MaxDepartments = limit
	case governance.KindDocuments:
		p.MaxDocuments = limit
	case governance.KindAudits:
		p.MaxAudits = limit
	case governance.KindFindings:
		p.MaxFindings = limit
	case governance.KindActions:
		p.MaxActions = limit
	default:
		return governance.ErrUnknownResourceKind
	}

	p.UpdatedAt = time.Now()
	return nil
}

// Limits returns the full kind-to-limit table of the plan
func (p *Plan) Limits() map[governance.ResourceKind]*int64 {
	limits := make(map[governance.ResourceKind]*int64, len(governance.AllResourceKinds))
	for _, kind := range governance.AllResourceKinds {
		limits[kind] = p.Limit(kind)
	}
	return limits
}

// Retire marks the plan as no longer purchasable
func (p *Plan) Retire() error {
	if !p.Active {
		return shared.ErrInvalidState
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	return nil
}
