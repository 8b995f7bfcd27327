package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
)

// HealthHandler implements the liveness endpoint
type HealthHandler struct {
	store             *service.SessionStore
	completionEnabled bool
	archiveEnabled    bool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store *service.SessionStore, completionEnabled, archiveEnabled bool) *HealthHandler {
	return &HealthHandler{
		store:             store,
		completionEnabled: completionEnabled,
		archiveEnabled:    archiveEnabled,
	}
}

// GetHealth reports service status. Without a completion service the
// planner still answers with rule-based diets, so it is not a failure.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	completion := "disabled"
	if h.completionEnabled {
		completion = "configured"
	}
	archive := "disabled"
	if h.archiveEnabled {
		archive = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "fitai-planner",
		"completion":      completion,
		"export_archive":  archive,
		"active_sessions": h.store.Len(),
	})
}
