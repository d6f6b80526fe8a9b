package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles controlled document API endpoints
type DocumentHandler struct {
	BaseHandler
	service *qmsapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *qmsapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// CreateDocumentRequest represents a request to create a controlled document
type CreateDocumentRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Title   string `json:"title" binding:"required,min=1,max=300"`
	Content string `json:"content" binding:"max=100000"`
}

// UpdateDocumentRequest represents a request to update a controlled document
type UpdateDocumentRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=300"`
	Content *string `json:"content" binding:"omitempty,max=100000"`
}

// DocumentResponse represents a controlled document in responses
type DocumentResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	Version   int    `json:"version"`
	Status    string `json:"status"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toDocumentResponse(doc *qms.Document, includeContent bool) DocumentResponse {
	resp := DocumentResponse{
		ID:        doc.ID.String(),
		Code:      doc.Code,
		Title:     doc.Title,
		Version:   doc.Version,
		Status:    string(doc.Status),
		CreatedAt: doc.CreatedAt.Format(timeLayout),
		UpdatedAt: doc.UpdatedAt.Format(timeLayout),
	}
	if includeContent {
		resp.Content = doc.Content
	}
	return resp
}

// Create creates a new controlled document, subject to the document quota
func (h *DocumentHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.Create(c.Request.Context(), mctx, qmsapp.CreateDocumentInput{
		Code:    req.Code,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDocumentResponse(doc, true))
}

// GetByID retrieves a controlled document by ID
func (h *DocumentHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc, true))
}

// List retrieves a paginated list of controlled documents
func (h *DocumentHandler) List(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	docs, total, err := h.service.List(c.Request.Context(), orgID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		items[i] = toDocumentResponse(doc, false)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates a controlled document draft
func (h *DocumentHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.service.Update(c.Request.Context(), mctx, id, qmsapp.UpdateDocumentInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc, true))
}

// Publish moves a draft document to the published state
func (h *DocumentHandler) Publish(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.service.Publish(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc, true))
}

// Revise opens a new draft revision of a published document
func (h *DocumentHandler) Revise(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.service.Revise(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDocumentResponse(doc, true))
}

// Delete removes a controlled document
func (h *DocumentHandler) Delete(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), mctx, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
