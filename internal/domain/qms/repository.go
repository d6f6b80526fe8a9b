package qms

import (
	"context"

	"github.com/google/uuid"
)

// DepartmentRepository defines persistence operations for departments
type DepartmentRepository interface {
	Create(ctx context.Context, dept *Department) error
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*Department, int64, error)
}

// DocumentRepository defines persistence operations for documents
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*Document, int64, error)
}

// AuditRepository defines persistence operations for audits
type AuditRepository interface {
	Create(ctx context.Context, audit *Audit) error
	Update(ctx context.Context, audit *Audit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Audit, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*Audit, int64, error)
}

// FindingRepository defines persistence operations for findings
type FindingRepository interface {
	Create(ctx context.Context, finding *Finding) error
	Update(ctx context.Context, finding *Finding) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Finding, error)
	ListByAudit(ctx context.Context, orgID, auditID uuid.UUID, offset, limit int) ([]*Finding, int64, error)
}

// CorrectiveActionRepository defines persistence operations for corrective actions
type CorrectiveActionRepository interface {
	Create(ctx context.Context, action *CorrectiveAction) error
	Update(ctx context.Context, action *CorrectiveAction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*CorrectiveAction, error)
	ListByFinding(ctx context.Context, orgID, findingID uuid.UUID, offset, limit int) ([]*CorrectiveAction, int64, error)
}
