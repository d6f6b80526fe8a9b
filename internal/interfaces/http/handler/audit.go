package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// AuditHandler handles internal audit API endpoints
type AuditHandler struct {
	BaseHandler
	service *qmsapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *qmsapp.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// CreateAuditRequest represents a request to plan an audit
type CreateAuditRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=300"`
	Scope      string     `json:"scope" binding:"max=5000"`
	PlannedFor *time.Time `json:"planned_for"`
}

// UpdateAuditRequest represents a request to update an audit
type UpdateAuditRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Scope      *string    `json:"scope" binding:"omitempty,max=5000"`
	PlannedFor *time.Time `json:"planned_for"`
}

// AuditResponse represents an audit in responses
type AuditResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Scope      string  `json:"scope"`
	Status     string  `json:"status"`
	PlannedFor *string `json:"planned_for,omitempty"`
	ClosedAt   *string `json:"closed_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func toAuditResponse(audit *qms.Audit) AuditResponse {
	return AuditResponse{
		ID:         audit.ID.String(),
		Title:      audit.Title,
		Scope:      audit.Scope,
		Status:     string(audit.Status),
		PlannedFor: formatTimePtr(audit.PlannedFor),
		ClosedAt:   formatTimePtr(audit.ClosedAt),
		CreatedAt:  audit.CreatedAt.Format(timeLayout),
		UpdatedAt:  audit.UpdatedAt.Format(timeLayout),
	}
}

// Create plans a new audit, subject to the audit quota
func (h *AuditHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	audit, err := h.service.Create(c.Request.Context(), mctx, qmsapp.CreateAuditInput{
		Title:      req.Title,
		Scope:      req.Scope,
		PlannedFor: req.PlannedFor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAuditResponse(audit))
}

// GetByID retrieves an audit by ID
func (h *AuditHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	audit, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuditResponse(audit))
}

// List retrieves a paginated list of audits
func (h *AuditHandler) List(c *gin.Context) {
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

	audits, total, err := h.service.List(c.Request.Context(), orgID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]AuditResponse, len(audits))
	for i, audit := range audits {
		items[i] = toAuditResponse(audit)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates an audit
func (h *AuditHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	var req UpdateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	audit, err := h.service.Update(c.Request.Context(), mctx, id, qmsapp.UpdateAuditInput{
		Title:      req.Title,
		Scope:      req.Scope,
		PlannedFor: req.PlannedFor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuditResponse(audit))
}

// Start moves a planned audit to in progress
func (h *AuditHandler) Start(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	audit, err := h.service.Start(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuditResponse(audit))
}

// Close finishes an in-progress audit
func (h *AuditHandler) Close(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	audit, err := h.service.Close(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuditResponse(audit))
}

// Delete removes an audit
func (h *AuditHandler) Delete(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), mctx, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
