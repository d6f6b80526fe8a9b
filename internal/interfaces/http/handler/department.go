package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qmsapp "github.com/gestium/backend/internal/application/qms"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// DepartmentHandler handles department API endpoints
type DepartmentHandler struct {
	BaseHandler
	service *qmsapp.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(service *qmsapp.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// CreateDepartmentRequest represents a request to create a department
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	ManagerName string `json:"manager_name" binding:"max=200"`
}

// UpdateDepartmentRequest represents a request to update a department
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	ManagerName *string `json:"manager_name" binding:"omitempty,max=200"`
}

// DepartmentResponse represents a department in responses
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerName string `json:"manager_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toDepartmentResponse(dept *qms.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Description: dept.Description,
		ManagerName: dept.ManagerName,
		CreatedAt:   dept.CreatedAt.Format(timeLayout),
		UpdatedAt:   dept.UpdatedAt.Format(timeLayout),
	}
}

// Create creates a new department, subject to the department quota
func (h *DepartmentHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dept, err := h.service.Create(c.Request.Context(), mctx, qmsapp.CreateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ManagerName: req.ManagerName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDepartmentResponse(dept))
}

// GetByID retrieves a department by ID
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}

	dept, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDepartmentResponse(dept))
}

// List retrieves a paginated list of departments
func (h *DepartmentHandler) List(c *gin.Context) {
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

	depts, total, err := h.service.List(c.Request.Context(), orgID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]DepartmentResponse, len(depts))
	for i, dept := range depts {
		items[i] = toDepartmentResponse(dept)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates a department
func (h *DepartmentHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dept, err := h.service.Update(c.Request.Context(), mctx, id, qmsapp.UpdateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ManagerName: req.ManagerName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDepartmentResponse(dept))
}

// Delete removes a department
func (h *DepartmentHandler) Delete(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid department ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), mctx, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
