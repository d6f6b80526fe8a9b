package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	billingapp "github.com/gestium/backend/internal/application/billing"
	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/governance"
)

// PlanHandler handles plan catalog API endpoints
type PlanHandler struct {
	BaseHandler
	service *billingapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(service *billingapp.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// PlanRequest represents a request to create or correct a plan.
// Limit values are keyed by resource kind; a null value means unlimited.
type PlanRequest struct {
	ID          string            `json:"id" binding:"omitempty,min=1,max=50"`
	Name        string            `json:"name" binding:"omitempty,min=1,max=200"`
	Description string            `json:"description" binding:"max=2000"`
	Price       string            `json:"price" binding:"omitempty"`
	Currency    string            `json:"currency" binding:"omitempty,len=3"`
	Limits      map[string]*int64 `json:"limits"`
}

// PlanResponse represents a plan in responses
type PlanResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Currency    string            `json:"currency"`
	Limits      map[string]*int64 `json:"limits"`
	Active      bool              `json:"active"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toPlanResponse(plan *billing.Plan) PlanResponse {
	limits := make(map[string]*int64)
	for kind, limit := range plan.Limits() {
		limits[kind.String()] = limit
	}
	return PlanResponse{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		Price:       plan.Price.String(),
		Currency:    plan.Currency,
		Limits:      limits,
		Active:      plan.Active,
		CreatedAt:   plan.CreatedAt.Format(timeLayout),
		UpdatedAt:   plan.UpdatedAt.Format(timeLayout),
	}
}

func (h *PlanHandler) parseInput(c *gin.Context, req PlanRequest, id string) (billingapp.PlanInput, bool) {
	input := billingapp.PlanInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
	}

	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			h.BadRequest(c, "Invalid price format")
			return input, false
		}
		if price.IsNegative() {
			h.BadRequest(c, "Price cannot be negative")
			return input, false
		}
		input.Price = price
	}

	if len(req.Limits) > 0 {
		input.Limits = make(map[governance.ResourceKind]*int64, len(req.Limits))
		for key, limit := range req.Limits {
			kind := governance.ResourceKind(key)
			if !kind.IsValid() {
				h.BadRequest(c, "Unknown resource kind "+strconv.Quote(key))
				return input, false
			}
			input.Limits[kind] = limit
		}
	}

	return input, true
}

// Create adds a new plan to the catalog
func (h *PlanHandler) Create(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.ID == "" {
		h.BadRequest(c, "Plan ID is required")
		return
	}
	if req.Name == "" {
		h.BadRequest(c, "Plan name is required")
		return
	}

	input, ok := h.parseInput(c, req, req.ID)
	if !ok {
		return
	}

	plan, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPlanResponse(plan))
}

// Correct amends a plan's catalog entry in place
func (h *PlanHandler) Correct(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, ok := h.parseInput(c, req, c.Param("id"))
	if !ok {
		return
	}

	plan, err := h.service.Correct(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}

// Retire withdraws a plan from sale without touching existing subscriptions
func (h *PlanHandler) Retire(c *gin.Context) {
	plan, err := h.service.Retire(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}

// GetByID retrieves a plan by ID
func (h *PlanHandler) GetByID(c *gin.Context) {
	plan, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}

// List retrieves the plan catalog
func (h *PlanHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	plans, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		items[i] = toPlanResponse(plan)
	}
	h.Success(c, items)
}
