package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create saves a new document
func (r *GormDocumentRepository) Create(ctx context.Context, doc *qms.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Update updates an existing document
func (r *GormDocumentRepository) Update(ctx context.Context, doc *qms.Document) error {
	result := r.db.WithContext(ctx).Save(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a document by ID
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&qms.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.Document, error) {
	var doc qms.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ListByOrganization returns a page of an organization's documents with the total count
func (r *GormDocumentRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Document, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&qms.Document{}).
		Where("organization_id = ?", orgID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []*qms.Document
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

var _ qms.DocumentRepository = (*GormDocumentRepository)(nil)
