package qms

import (
	"strings"
	"time"

	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentStatus represents the controlled-document lifecycle
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPublished DocumentStatus = "published"
	DocumentStatusObsolete  DocumentStatus = "obsolete"
)

// Document is a version-controlled document owned by an organization
type Document struct {
	shared.BaseEntity
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Code           string         `gorm:"type:varchar(50);not null"`
	Title          string         `gorm:"type:varchar(300);not null"`
	Version        int            `gorm:"not null;default:1"`
	Status         DocumentStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Content        string         `gorm:"type:text"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new draft document
func NewDocument(orgID uuid.UUID, code, title string) (*Document, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	title = strings.TrimSpace(title)

	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Document code cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
	}

	return &Document{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: orgID,
		Code:           code,
		Title:          title,
		Version:        1,
		Status:         DocumentStatusDraft,
	}, nil
}

// Publish moves a draft to published status
func (d *Document) Publish() error {
	if d.Status != DocumentStatusDraft {
		return shared.ErrInvalidState
	}
	d.Status = DocumentStatusPublished
	d.UpdatedAt = time.Now()
	return nil
}

// Revise bumps the version and returns the document to draft
func (d *Document) Revise() error {
	if d.Status != DocumentStatusPublished {
		return shared.ErrInvalidState
	}
	d.Version++
	d.Status = DocumentStatusDraft
	d.UpdatedAt = time.Now()
	return nil
}

// MarkObsolete retires the document
func (d *Document) MarkObsolete() error {
	if d.Status == DocumentStatusObsolete {
		return shared.ErrInvalidState
	}
	d.Status = DocumentStatusObsolete
	d.UpdatedAt = time.Now()
	return nil
}
