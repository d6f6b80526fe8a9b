package router

import (
	"github.com/gin-gonic/gin"

	"github.com/gestium/backend/internal/interfaces/http/handler"
)

// Handlers bundles every API handler for route registration
type Handlers struct {
	System       *handler.SystemHandler
	Organization *handler.OrganizationHandler
	User         *handler.UserHandler
	Department   *handler.DepartmentHandler
	Document     *handler.DocumentHandler
	Audit        *handler.AuditHandler
	Finding      *handler.FindingHandler
	Action       *handler.ActionHandler
	Activity     *handler.ActivityHandler
	Subscription *handler.SubscriptionHandler
	Plan         *handler.PlanHandler
}

// APIRoutes returns the registrar for the full API surface
func APIRoutes(h Handlers) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", h.System.Health)

		orgs := rg.Group("/organizations")
		{
			orgs.POST("", h.Organization.Create)
			orgs.GET("", h.Organization.List)
			orgs.GET("/:id", h.Organization.GetByID)
			orgs.POST("/:id/deactivate", h.Organization.Deactivate)
		}

		users := rg.Group("/users")
		{
			users.POST("", h.User.Create)
			users.GET("", h.User.List)
			users.GET("/:id", h.User.GetByID)
			users.PUT("/:id", h.User.Update)
			users.POST("/:id/disable", h.User.Disable)
		}

		departments := rg.Group("/departments")
		{
			departments.POST("", h.Department.Create)
			departments.GET("", h.Department.List)
			departments.GET("/:id", h.Department.GetByID)
			departments.PUT("/:id", h.Department.Update)
			departments.DELETE("/:id", h.Department.Delete)
		}

		documents := rg.Group("/documents")
		{
			documents.POST("", h.Document.Create)
			documents.GET("", h.Document.List)
			documents.GET("/:id", h.Document.GetByID)
			documents.PUT("/:id", h.Document.Update)
			documents.POST("/:id/publish", h.Document.Publish)
			documents.POST("/:id/revise", h.Document.Revise)
			documents.DELETE("/:id", h.Document.Delete)
		}

		audits := rg.Group("/audits")
		{
			audits.POST("", h.Audit.Create)
			audits.GET("", h.Audit.List)
			audits.GET("/:id", h.Audit.GetByID)
			audits.PUT("/:id", h.Audit.Update)
			audits.POST("/:id/start", h.Audit.Start)
			audits.POST("/:id/close", h.Audit.Close)
			audits.DELETE("/:id", h.Audit.Delete)
			audits.POST("/:id/findings", h.Finding.Create)
			audits.GET("/:id/findings", h.Finding.ListByAudit)
		}

		findings := rg.Group("/findings")
		{
			findings.GET("/:id", h.Finding.GetByID)
			findings.PUT("/:id", h.Finding.Update)
			findings.POST("/:id/close", h.Finding.Close)
			findings.DELETE("/:id", h.Finding.Delete)
			findings.POST("/:id/actions", h.Action.Create)
			findings.GET("/:id/actions", h.Action.ListByFinding)
		}

		actions := rg.Group("/actions")
		{
			actions.GET("/:id", h.Action.GetByID)
			actions.PUT("/:id", h.Action.Update)
			actions.POST("/:id/start", h.Action.Start)
			actions.POST("/:id/close", h.Action.Close)
			actions.DELETE("/:id", h.Action.Delete)
		}

		activity := rg.Group("/activity")
		{
			activity.GET("", h.Activity.History)
			activity.GET("/statistics", h.Activity.Statistics)
			activity.GET("/timeline", h.Activity.Timeline)
		}

		subscription := rg.Group("/subscription")
		{
			subscription.GET("", h.Subscription.Current)
			subscription.POST("/purchase", h.Subscription.Purchase)
			subscription.POST("/cancel", h.Subscription.Cancel)
			subscription.GET("/history", h.Subscription.History)
		}

		plans := rg.Group("/plans")
		{
			plans.POST("", h.Plan.Create)
			plans.GET("", h.Plan.List)
			plans.GET("/:id", h.Plan.GetByID)
			plans.PUT("/:id", h.Plan.Correct)
			plans.POST("/:id/retire", h.Plan.Retire)
		}
	})
}
