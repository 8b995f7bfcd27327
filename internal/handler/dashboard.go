package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler implements the dashboard endpoint
type DashboardHandler struct {
	store   *service.SessionStore
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(store *service.SessionStore, service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:   store,
		service: service,
		logger:  logger,
	}
}

// GetDashboard returns the derived figures for the session
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	summary := h.service.GetSummary(sess.Snapshot())

	h.logger.Debug("dashboard summary retrieved",
		zap.String("session_id", sess.ID()),
		zap.Bool("has_plan", summary.HasPlan),
	)

	c.JSON(http.StatusOK, summary)
}
