package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// FindingHandler handles audit finding API endpoints
type FindingHandler struct {
	BaseHandler
	service *qmsapp.FindingService
}

// NewFindingHandler creates a new FindingHandler
func NewFindingHandler(service *qmsapp.FindingService) *FindingHandler {
	return &FindingHandler{service: service}
}

// CreateFindingRequest represents a request to raise a finding against an audit
type CreateFindingRequest struct {
	Severity    string `json:"severity" binding:"required,oneof=minor major critical"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
}

// UpdateFindingRequest represents a request to update a finding
type UpdateFindingRequest struct {
	Severity    *string `json:"severity" binding:"omitempty,oneof=minor major critical"`
	Description *string `json:"description" binding:"omitempty,min=1,max=5000"`
}

// FindingResponse represents a finding in responses
type FindingResponse struct {
	ID          string  `json:"id"`
	AuditID     string  `json:"audit_id"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ClosedAt    *string `json:"closed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toFindingResponse(finding *qms.Finding) FindingResponse {
	return FindingResponse{
		ID:          finding.ID.String(),
		AuditID:     finding.AuditID.String(),
		Severity:    string(finding.Severity),
		Description: finding.Description,
		Status:      string(finding.Status),
		ClosedAt:    formatTimePtr(finding.ClosedAt),
		CreatedAt:   finding.CreatedAt.Format(timeLayout),
		UpdatedAt:   finding.UpdatedAt.Format(timeLayout),
	}
}

// Create raises a new finding against an audit, subject to the finding quota
func (h *FindingHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	auditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	var req CreateFindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	finding, err := h.service.Create(c.Request.Context(), mctx, qmsapp.CreateFindingInput{
		AuditID:     auditID,
		Severity:    qms.FindingSeverity(req.Severity),
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toFindingResponse(finding))
}

// GetByID retrieves a finding by ID
func (h *FindingHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	finding, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFindingResponse(finding))
}

// ListByAudit retrieves a paginated list of the findings raised against an audit
func (h *FindingHandler) ListByAudit(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	auditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	findings, total, err := h.service.ListByAudit(c.Request.Context(), orgID, auditID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]FindingResponse, len(findings))
	for i, finding := range findings {
		items[i] = toFindingResponse(finding)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates a finding
func (h *FindingHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	var req UpdateFindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := qmsapp.UpdateFindingInput{Description: req.Description}
	if req.Severity != nil {
		severity := qms.FindingSeverity(*req.Severity)
		input.Severity = &severity
	}

	finding, err := h.service.Update(c.Request.Context(), mctx, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFindingResponse(finding))
}

// Close resolves an open finding
func (h *FindingHandler) Close(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	finding, err := h.service.Close(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFindingResponse(finding))
}

// Delete removes a finding
func (h *FindingHandler) Delete(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), mctx, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
