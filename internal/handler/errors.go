package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"github.com/vcscsvcscs/fitai-planner/internal/storage"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeStepIncomplete = "STEP_INCOMPLETE"
	CodeNoPlan         = "NO_PLAN"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// statusFor maps service sentinels to an HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrArchiveDisabled),
		errors.Is(err, storage.ErrBlobNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrGenerationInProgress),
		errors.Is(err, service.ErrStaleGeneration),
		errors.Is(err, service.ErrLastStep):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, service.ErrNoPlan):
		return http.StatusConflict, CodeNoPlan
	case errors.Is(err, service.ErrStepIncomplete):
		return http.StatusUnprocessableEntity, CodeStepIncomplete
	case errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrInvalidValue),
		errors.Is(err, storage.ErrInvalidBlobPath):
		return http.StatusBadRequest, CodeValidation
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError writes err using the sentinel mapping. Unmapped errors are
// logged and attached to the context for the error logging middleware.
func respondError(c *gin.Context, logger *zap.Logger, message string, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(message,
			zap.Error(err),
			zap.String("session_id", c.Param("id")),
		)
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: message,
		Details: stringPtr(err.Error()),
	})
}

// respondBadRequest writes a 400 for a malformed request body or parameter
func respondBadRequest(c *gin.Context, logger *zap.Logger, message string, err error) {
	logger.Warn(message,
		zap.Error(err),
		zap.String("session_id", c.Param("id")),
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    CodeValidation,
		Message: message,
		Details: stringPtr(err.Error()),
	})
}
