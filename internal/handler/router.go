package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every endpoint handler for route registration
type Handlers struct {
	Session   *SessionHandler
	Intake    *IntakeHandler
	Wizard    *WizardHandler
	Plan      *PlanHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the API on r
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", h.Health.GetHealth)

	v1 := r.Group("/api/v1")
	v1.POST("/sessions", h.Session.CreateSession)

	sessions := v1.Group("/sessions/:id")
	sessions.GET("", h.Session.GetSession)
	sessions.DELETE("", h.Session.DeleteSession)

	sessions.PUT("/intake", h.Intake.ReplaceIntake)
	sessions.PATCH("/intake", h.Intake.SetField)
	sessions.POST("/intake/toggle", h.Intake.ToggleItem)

	sessions.GET("/wizard", h.Wizard.GetWizard)
	sessions.POST("/wizard/next", h.Wizard.Next)
	sessions.POST("/wizard/back", h.Wizard.Back)
	sessions.POST("/wizard/cancel", h.Wizard.Cancel)

	sessions.POST("/plan", h.Plan.GeneratePlan)
	sessions.POST("/exercises/:index/complete", h.Plan.CompleteExercise)
	sessions.POST("/meals/:index/complete", h.Plan.CompleteMeal)

	sessions.GET("/dashboard", h.Dashboard.GetDashboard)
	sessions.GET("/export", h.Export.ExportPlan)
	sessions.GET("/export/archive", h.Export.GetArchivedExport)
}
