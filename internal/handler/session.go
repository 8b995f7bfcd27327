package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"go.uber.org/zap"
)

// SessionResponse is a session snapshot plus its wizard state
type SessionResponse struct {
	service.SessionSnapshot
	Wizard service.WizardView `json:"wizard"`
}

// SessionHandler implements session lifecycle endpoints
type SessionHandler struct {
	store  *service.SessionStore
	logger *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(store *service.SessionStore, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// CreateSession starts an empty planning session
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.store.Create()

	c.JSON(http.StatusCreated, SessionResponse{
		SessionSnapshot: sess.Snapshot(),
		Wizard:          sess.Wizard(),
	})
}

// GetSession returns the session's intake, plans and progress
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionSnapshot: sess.Snapshot(),
		Wizard:          sess.Wizard(),
	})
}

// DeleteSession discards the session and anything generating for it
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	c.Status(http.StatusNoContent)
}
