package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// ActionHandler handles corrective action API endpoints
type ActionHandler struct {
	BaseHandler
	service *qmsapp.ActionService
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(service *qmsapp.ActionService) *ActionHandler {
	return &ActionHandler{service: service}
}

// CreateActionRequest represents a request to open a corrective action for a finding
type CreateActionRequest struct {
	Description string     `json:"description" binding:"required,min=1,max=5000"`
	Responsible string     `json:"responsible" binding:"max=200"`
	DueAt       *time.Time `json:"due_at"`
}

// UpdateActionRequest represents a request to update a corrective action
type UpdateActionRequest struct {
	Description *string    `json:"description" binding:"omitempty,min=1,max=5000"`
	Responsible *string    `json:"responsible" binding:"omitempty,max=200"`
	DueAt       *time.Time `json:"due_at"`
}

// ActionResponse represents a corrective action in responses
type ActionResponse struct {
	ID          string  `json:"id"`
	FindingID   string  `json:"finding_id"`
	Description string  `json:"description"`
	Responsible string  `json:"responsible"`
	Status      string  `json:"status"`
	DueAt       *string `json:"due_at,omitempty"`
	ClosedAt    *string `json:"closed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toActionResponse(action *qms.CorrectiveAction) ActionResponse {
	return ActionResponse{
		ID:          action.ID.String(),
		FindingID:   action.FindingID.String(),
		Description: action.Description,
		Responsible: action.Responsible,
		Status:      string(action.Status),
		DueAt:       formatTimePtr(action.DueAt),
		ClosedAt:    formatTimePtr(action.ClosedAt),
		CreatedAt:   action.CreatedAt.Format(timeLayout),
		UpdatedAt:   action.UpdatedAt.Format(timeLayout),
	}
}

// Create opens a new corrective action for a finding, subject to the action quota
func (h *ActionHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	findingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	action, err := h.service.Create(c.Request.Context(), mctx, qmsapp.CreateActionInput{
		FindingID:   findingID,
		Description: req.Description,
		Responsible: req.Responsible,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toActionResponse(action))
}

// GetByID retrieves a corrective action by ID
func (h *ActionHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid action ID format")
		return
	}

	action, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toActionResponse(action))
}

// ListByFinding retrieves a paginated list of the actions opened for a finding
func (h *ActionHandler) ListByFinding(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	findingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid finding ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	actions, total, err := h.service.ListByFinding(c.Request.Context(), orgID, findingID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ActionResponse, len(actions))
	for i, action := range actions {
		items[i] = toActionResponse(action)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates a corrective action
func (h *ActionHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid action ID format")
		return
	}

	var req UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	action, err := h.service.Update(c.Request.Context(), mctx, id, qmsapp.UpdateActionInput{
		Description: req.Description,
		Responsible: req.Responsible,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toActionResponse(action))
}

// Start moves an open corrective action to in progress
func (h *ActionHandler) Start(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid action ID format")
		return
	}

	action, err := h.service.Start(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toActionResponse(action))
}

// Close completes a corrective action
func (h *ActionHandler) Close(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid action ID format")
		return
	}

	action, err := h.service.Close(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toActionResponse(action))
}

// Delete removes a corrective action
func (h *ActionHandler) Delete(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid action ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), mctx, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
