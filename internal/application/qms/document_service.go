package qms

import (
	"context"
	"fmt"

	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentSnapshot is the audited state of a document
type DocumentSnapshot struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Version int    `json:"version"`
	Status  string `json:"status"`
}

func snapshotDocument(d *qms.Document) DocumentSnapshot {
	return DocumentSnapshot{
		Code:    d.Code,
		Title:   d.Title,
		Version: d.Version,
		Status:  string(d.Status),
	}
}

// CreateDocumentInput carries the fields for creating a document
type CreateDocumentInput struct {
	Code    string
	Title   string
	Content string
}

// UpdateDocumentInput carries the mutable fields of a document.
// Nil fields are left unchanged.
type UpdateDocumentInput struct {
	Title   *string
	Content *string
}

// DocumentService manages controlled documents
type DocumentService struct {
	repo         qms.DocumentRepository
	orchestrator *governanceapp.Orchestrator
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo qms.DocumentRepository, orchestrator *governanceapp.Orchestrator, logger *zap.Logger) *DocumentService {
	return &DocumentService{repo: repo, orchestrator: orchestrator, logger: logger}
}

// Create creates a draft document, subject to the document quota
func (s *DocumentService) Create(ctx context.Context, mctx governanceapp.MutationContext, input CreateDocumentInput) (*qms.Document, error) {
	doc, err := qms.NewDocument(mctx.OrganizationID, input.Code, input.Title)
	if err != nil {
		return nil, err
	}
	doc.Content = input.Content

	_, err = s.orchestrator.Create(ctx, mctx, governance.KindDocuments,
		fmt.Sprintf("Created document %s %q", doc.Code, doc.Title),
		func(ctx context.Context) (uuid.UUID, any, error) {
			if err := s.repo.Create(ctx, doc); err != nil {
				return uuid.Nil, nil, err
			}
			return doc.ID, snapshotDocument(doc), nil
		})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update applies a partial update to a document
func (s *DocumentService) Update(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, input UpdateDocumentInput) (*qms.Document, error) {
	doc, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotDocument(doc)

	if input.Title != nil {
		if *input.Title == "" {
			return nil, shared.NewDomainError("INVALID_TITLE", "Document title cannot be empty")
		}
		doc.Title = *input.Title
	}
	if input.Content != nil {
		doc.Content = *input.Content
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindDocuments, doc.ID,
		fmt.Sprintf("Updated document %s", doc.Code),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, doc); err != nil {
				return nil, err
			}
			return snapshotDocument(doc), nil
		})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Publish moves a draft document to published
func (s *DocumentService) Publish(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.Document, error) {
	return s.transition(ctx, mctx, id, "Published document %s", (*qms.Document).Publish)
}

// Revise bumps a published document back to draft with a new version
func (s *DocumentService) Revise(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) (*qms.Document, error) {
	return s.transition(ctx, mctx, id, "Revised document %s", (*qms.Document).Revise)
}

// Delete soft-deletes a document
func (s *DocumentService) Delete(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID) error {
	doc, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return err
	}

	return s.orchestrator.Delete(ctx, mctx, governance.KindDocuments, doc.ID,
		fmt.Sprintf("Deleted document %s %q", doc.Code, doc.Title),
		snapshotDocument(doc),
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, doc.ID)
		})
}

// Get returns one document owned by the organization
func (s *DocumentService) Get(ctx context.Context, orgID, id uuid.UUID) (*qms.Document, error) {
	return s.findOwned(ctx, orgID, id)
}

// List returns a page of the organization's documents
func (s *DocumentService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Document, int64, error) {
	return s.repo.ListByOrganization(ctx, orgID, offset, limit)
}

func (s *DocumentService) transition(ctx context.Context, mctx governanceapp.MutationContext, id uuid.UUID, descFormat string, apply func(*qms.Document) error) (*qms.Document, error) {
	doc, err := s.findOwned(ctx, mctx.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	before := snapshotDocument(doc)

	if err := apply(doc); err != nil {
		return nil, err
	}

	err = s.orchestrator.Update(ctx, mctx, governance.KindDocuments, doc.ID,
		fmt.Sprintf(descFormat, doc.Code),
		before,
		func(ctx context.Context) (any, error) {
			if err := s.repo.Update(ctx, doc); err != nil {
				return nil, err
			}
			return snapshotDocument(doc), nil
		})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) findOwned(ctx context.Context, orgID, id uuid.UUID) (*qms.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OrganizationID != orgID {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}
