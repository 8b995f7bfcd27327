package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"go.uber.org/zap"
)

// WizardHandler implements intake wizard navigation
type WizardHandler struct {
	store  *service.SessionStore
	logger *zap.Logger
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(store *service.SessionStore, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		store:  store,
		logger: logger,
	}
}

// GetWizard returns the current step and draft
func (h *WizardHandler) GetWizard(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	c.JSON(http.StatusOK, sess.Wizard())
}

// Next advances the wizard when the current step is complete
func (h *WizardHandler) Next(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	view, err := sess.WizardNext()
	if err != nil {
		respondError(c, h.logger, "Cannot advance wizard", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Back moves the wizard one step back
func (h *WizardHandler) Back(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	c.JSON(http.StatusOK, sess.WizardBack())
}

// Cancel dismisses the wizard, dropping the draft and any generation in flight
func (h *WizardHandler) Cancel(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	view := sess.Dismiss()
	h.logger.Info("wizard dismissed", zap.String("session_id", sess.ID()))
	c.JSON(http.StatusOK, view)
}
