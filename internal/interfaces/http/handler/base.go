package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityapp "github.com/gestium/backend/internal/application/activity"
	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/gestium/backend/internal/interfaces/http/dto"
	"github.com/gestium/backend/internal/interfaces/http/middleware"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// timeLayout is the timestamp format used in API responses
const timeLayout = "2006-01-02T15:04:05Z07:00"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// getOrganizationID extracts the organization ID from JWT claims
func getOrganizationID(c *gin.Context) (uuid.UUID, error) {
	orgIDStr := middleware.GetJWTOrganizationID(c)
	if orgIDStr == "" {
		return uuid.Nil, errors.New("organization ID not found in context")
	}
	return uuid.Parse(orgIDStr)
}

// getUserID extracts the user ID from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// mutationContext builds the cross-cutting context every recorded mutation
// needs: the owning organization, the acting user, and request origin.
func mutationContext(c *gin.Context) (governanceapp.MutationContext, error) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		return governanceapp.MutationContext{}, err
	}

	mc := governanceapp.MutationContext{
		OrganizationID: orgID,
		OriginIP:       c.ClientIP(),
		OriginAgent:    c.Request.UserAgent(),
	}

	mc.Actor = actorFromContext(c)
	return mc, nil
}

// actorFromContext resolves the acting user from JWT claims, or nil for
// unauthenticated surfaces
func actorFromContext(c *gin.Context) *activityapp.Actor {
	userID, err := getUserID(c)
	if err != nil {
		return nil
	}
	return &activityapp.Actor{
		ID:   userID,
		Name: middleware.GetJWTName(c),
	}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// QuotaDenied sends a 403 response carrying the denial's usage context
func (h *BaseHandler) QuotaDenied(c *gin.Context, denied *governance.QuotaDeniedError) {
	code := dto.ErrCodeQuotaExceeded
	if denied.Decision.Reason == governance.DenyReasonSubscriptionExpired {
		code = dto.ErrCodeSubscriptionExpired
	}

	quota := &dto.QuotaDenial{
		Reason:  string(denied.Decision.Reason),
		Kind:    string(denied.Decision.Kind),
		Current: denied.Decision.Current,
		Limit:   denied.Decision.Limit,
	}
	c.JSON(denied.HTTPStatusCode(), dto.NewQuotaDeniedResponse(code, denied.Error(), getRequestID(c), quota))
}

// HandleError converts service-layer errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var denied *governance.QuotaDeniedError
	if errors.As(err, &denied) {
		h.QuotaDenied(c, denied)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c)))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
