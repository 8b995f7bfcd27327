package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

// SetFieldRequest sets one intake field on the wizard draft
type SetFieldRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value" binding:"required"`
}

// ToggleItemRequest flips one item of a set-valued intake field
type ToggleItemRequest struct {
	Field string `json:"field" binding:"required"`
	Item  string `json:"item" binding:"required"`
}

// IntakeHandler implements intake editing endpoints
type IntakeHandler struct {
	store  *service.SessionStore
	logger *zap.Logger
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(store *service.SessionStore, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		store:  store,
		logger: logger,
	}
}

// ReplaceIntake replaces the committed intake, as the profile editor does
func (h *IntakeHandler) ReplaceIntake(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	intake := model.NewUserIntake()
	if err := c.ShouldBindJSON(&intake); err != nil {
		respondBadRequest(c, h.logger, "Invalid request body", err)
		return
	}

	if err := sess.ReplaceIntake(intake); err != nil {
		respondError(c, h.logger, "Invalid intake", err)
		return
	}

	h.logger.Info("intake replaced", zap.String("session_id", sess.ID()))
	c.JSON(http.StatusOK, sess.Snapshot())
}

// SetField updates one field of the wizard draft
func (h *IntakeHandler) SetField(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request body", err)
		return
	}

	view, err := sess.SetIntakeField(req.Field, req.Value)
	if err != nil {
		respondError(c, h.logger, "Invalid intake field", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ToggleItem adds or removes one item of a set-valued draft field
func (h *IntakeHandler) ToggleItem(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	var req ToggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request body", err)
		return
	}

	view, err := sess.ToggleIntakeItem(req.Field, req.Item)
	if err != nil {
		respondError(c, h.logger, "Invalid intake item", err)
		return
	}

	c.JSON(http.StatusOK, view)
}
