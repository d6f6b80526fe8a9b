package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/gestium/backend/internal/application/billing"
	"github.com/gestium/backend/internal/domain/billing"
)

// SubscriptionHandler handles subscription API endpoints
type SubscriptionHandler struct {
	BaseHandler
	service *billingapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(service *billingapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// PurchaseSubscriptionRequest represents a request to purchase a plan
type PurchaseSubscriptionRequest struct {
	PlanID string     `json:"plan_id" binding:"required,min=1,max=50"`
	EndsAt *time.Time `json:"ends_at"`
}

// CancelSubscriptionRequest represents a request to cancel the active subscription
type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// SubscriptionResponse represents a subscription in responses
type SubscriptionResponse struct {
	ID           string  `json:"id"`
	PlanID       string  `json:"plan_id"`
	Status       string  `json:"status"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       *string `json:"ends_at,omitempty"`
	CancelReason string  `json:"cancel_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func toSubscriptionResponse(sub *billing.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           sub.ID.String(),
		PlanID:       sub.PlanID,
		Status:       string(sub.Status),
		StartsAt:     sub.StartsAt.Format(timeLayout),
		EndsAt:       formatTimePtr(sub.EndsAt),
		CancelReason: sub.CancelReason,
		CreatedAt:    sub.CreatedAt.Format(timeLayout),
	}
}

// Current retrieves the organization's active subscription with quota usage
func (h *SubscriptionHandler) Current(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	current, err := h.service.Current(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, current)
}

// Purchase starts a new subscription on the given plan, replacing any
// currently active one
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req PurchaseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sub, err := h.service.Purchase(c.Request.Context(), orgID, req.PlanID, req.EndsAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSubscriptionResponse(sub))
}

// Cancel cancels the organization's active subscription
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), orgID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSubscriptionResponse(sub))
}

// History retrieves the organization's subscription history, newest first
func (h *SubscriptionHandler) History(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	subs, err := h.service.History(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		items[i] = toSubscriptionResponse(sub)
	}
	h.Success(c, items)
}
