package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/gestium/backend/internal/application/identity"
	"github.com/gestium/backend/internal/domain/identity"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// OrganizationHandler handles organization API endpoints (platform
// operator surface)
type OrganizationHandler struct {
	BaseHandler
	service *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// CreateOrganizationRequest represents a request to onboard an organization
type CreateOrganizationRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// OrganizationResponse represents an organization in responses
type OrganizationResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOrganizationResponse(org *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID.String(),
		Code:      org.Code,
		Name:      org.Name,
		Status:    string(org.Status),
		CreatedAt: org.CreatedAt.Format(timeLayout),
		UpdatedAt: org.UpdatedAt.Format(timeLayout),
	}
}

// Create onboards a new organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	org, err := h.service.Create(c.Request.Context(), req.Code, req.Name, actorFromContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrganizationResponse(org))
}

// Deactivate suspends an organization
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	org, err := h.service.Deactivate(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrganizationResponse(org))
}

// GetByID retrieves an organization by ID
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	org, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrganizationResponse(org))
}

// List retrieves a paginated list of organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	orgs, total, err := h.service.List(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		items[i] = toOrganizationResponse(org)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}
