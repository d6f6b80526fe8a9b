package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/gestium/backend/internal/application/identity"
	"github.com/gestium/backend/internal/domain/identity"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// UserHandler handles user API endpoints
type UserHandler struct {
	BaseHandler
	service *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *identityapp.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email,max=200"`
	Role  string `json:"role" binding:"required,oneof=admin manager auditor employee"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=200"`
	Role *string `json:"role" binding:"omitempty,oneof=admin manager auditor employee"`
}

// UserResponse represents a user in responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt.Format(timeLayout),
		UpdatedAt: user.UpdatedAt.Format(timeLayout),
	}
}

// Create creates a new user, subject to the active-user quota
func (h *UserHandler) Create(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.Create(c.Request.Context(), mctx, identityapp.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  identity.UserRole(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserResponse(user))
}

// GetByID retrieves a user by ID
func (h *UserHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.service.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// List retrieves a paginated list of users
func (h *UserHandler) List(c *gin.Context) {
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

	users, total, err := h.service.List(c.Request.Context(), orgID, req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, user := range users {
		items[i] = toUserResponse(user)
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Update updates a user's name or role
func (h *UserHandler) Update(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := identityapp.UpdateUserInput{Name: req.Name}
	if req.Role != nil {
		role := identity.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.service.Update(c.Request.Context(), mctx, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// Disable deactivates a user, freeing their slot under the active-user quota
func (h *UserHandler) Disable(c *gin.Context) {
	mctx, err := mutationContext(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.service.Disable(c.Request.Context(), mctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}
