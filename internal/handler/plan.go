package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

// PlanHandler implements plan generation and progress endpoints
type PlanHandler struct {
	store   *service.SessionStore
	planner *service.PlanService
	logger  *zap.Logger
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(store *service.SessionStore, planner *service.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		store:   store,
		planner: planner,
		logger:  logger,
	}
}

// GeneratePlan builds workout and diet plans from the completed wizard.
// The diet falls back to the local rules when the completion service fails.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	plans, err := h.planner.GenerateForSession(c.Request.Context(), sess)
	if err != nil {
		respondError(c, h.logger, "Failed to generate plan", err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// CompleteExercise marks one exercise of the current workout as done
func (h *PlanHandler) CompleteExercise(c *gin.Context) {
	h.complete(c, (*service.Session).CompleteExercise)
}

// CompleteMeal marks one meal of the current diet as eaten
func (h *PlanHandler) CompleteMeal(c *gin.Context) {
	h.complete(c, (*service.Session).CompleteMeal)
}

func (h *PlanHandler) complete(c *gin.Context, mark func(*service.Session, int) (model.CompletionState, error)) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondBadRequest(c, h.logger, "Invalid index", err)
		return
	}

	state, err := mark(sess, index)
	if err != nil {
		respondError(c, h.logger, "Cannot update progress", err)
		return
	}

	c.JSON(http.StatusOK, state)
}
