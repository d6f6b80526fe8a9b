package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityapp "github.com/gestium/backend/internal/application/activity"
	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/interfaces/http/dto"
)

// ActivityHandler handles activity trail API endpoints
type ActivityHandler struct {
	BaseHandler
	service *activityapp.QueryService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *activityapp.QueryService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// HistoryRequest represents the filterable history query parameters
type HistoryRequest struct {
	dto.ListRequest
	EntityKind string `form:"entity_kind" binding:"omitempty,oneof=usuarios departamentos documentos auditorias hallazgos acciones"`
	EntityID   string `form:"entity_id" binding:"omitempty,uuid"`
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ActivityRecordResponse represents one activity record in responses
type ActivityRecordResponse struct {
	ID          string  `json:"id"`
	EntityKind  string  `json:"entity_kind"`
	EntityID    string  `json:"entity_id"`
	Action      string  `json:"action"`
	Description string  `json:"description"`
	ActorID     *string `json:"actor_id,omitempty"`
	ActorName   *string `json:"actor_name,omitempty"`
	BeforeState *string `json:"before_state,omitempty"`
	AfterState  *string `json:"after_state,omitempty"`
	OriginIP    string  `json:"origin_ip,omitempty"`
	OriginAgent string  `json:"origin_agent,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// TimelineGroupResponse is one calendar day of records, newest day first
type TimelineGroupResponse struct {
	Date    string                   `json:"date"`
	Records []ActivityRecordResponse `json:"records"`
}

func toActivityRecordResponse(record *activity.Record) ActivityRecordResponse {
	resp := ActivityRecordResponse{
		ID:          record.ID.String(),
		EntityKind:  record.EntityKind,
		EntityID:    record.EntityID.String(),
		Action:      string(record.Action),
		Description: record.Description,
		ActorName:   record.ActorName,
		BeforeState: record.BeforeState,
		AfterState:  record.AfterState,
		OriginIP:    record.OriginIP,
		OriginAgent: record.OriginAgent,
		CreatedAt:   record.CreatedAt.Format(timeLayout),
	}
	if record.ActorID != nil {
		id := record.ActorID.String()
		resp.ActorID = &id
	}
	return resp
}

func toActivityRecordResponses(records []*activity.Record) []ActivityRecordResponse {
	items := make([]ActivityRecordResponse, len(records))
	for i, record := range records {
		items[i] = toActivityRecordResponse(record)
	}
	return items
}

// History retrieves a filtered, paginated page of the organization's
// activity trail, newest first
func (h *ActivityHandler) History(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := activity.Filter{EntityKind: req.EntityKind}
	if req.EntityID != "" {
		id, err := uuid.Parse(req.EntityID)
		if err != nil {
			h.BadRequest(c, "Invalid entity_id format")
			return
		}
		filter.EntityID = &id
	}
	if req.ActorID != "" {
		id, err := uuid.Parse(req.ActorID)
		if err != nil {
			h.BadRequest(c, "Invalid actor_id format")
			return
		}
		filter.ActorID = &id
	}
	if req.From != "" {
		from, err := time.Parse(timeLayout, req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp")
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(timeLayout, req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp")
			return
		}
		filter.To = &to
	}

	records, total, err := h.service.History(c.Request.Context(), orgID, filter, req.PageSize, req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toActivityRecordResponses(records), total, req.Page, req.PageSize)
}

// Statistics retrieves aggregate activity counts over a trailing window
func (h *ActivityHandler) Statistics(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization context")
		return
	}

	period := activityapp.StatisticsPeriod(c.DefaultQuery("period", string(activityapp.PeriodWeek)))

	stats, err := h.service.Statistics(c.Request.Context(), orgID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Timeline retrieves the activity trail grouped by calendar day
func (h *ActivityHandler) Timeline(c *gin.Context) {
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

	groups, total, err := h.service.Timeline(c.Request.Context(), orgID, req.PageSize, req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]TimelineGroupResponse, len(groups))
	for i, group := range groups {
		items[i] = TimelineGroupResponse{
			Date:    group.Date,
			Records: toActivityRecordResponses(group.Records),
		}
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}
