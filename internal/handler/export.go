package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"go.uber.org/zap"
)

// ArchiveBlobHeader names the blob an exported document was archived to
const ArchiveBlobHeader = "X-Archive-Blob"

// ExportHandler implements the plan document download
type ExportHandler struct {
	store   *service.SessionStore
	service *service.ExportService
	logger  *zap.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(store *service.SessionStore, service *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		store:   store,
		service: service,
		logger:  logger,
	}
}

// ExportPlan renders the session's profile and plans as a PDF attachment
func (h *ExportHandler) ExportPlan(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	result, err := h.service.Export(c.Request.Context(), sess.Snapshot())
	if err != nil {
		respondError(c, h.logger, "Failed to export plan", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	if result.BlobName != "" {
		c.Header(ArchiveBlobHeader, result.BlobName)
	}
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// GetArchivedExport returns a previously archived plan document. The optional
// file query parameter picks an older file name; the default is the current one.
func (h *ExportHandler) GetArchivedExport(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Session not found", err)
		return
	}

	result, err := h.service.Archived(c.Request.Context(), sess.Snapshot(), c.Query("file"))
	if err != nil {
		respondError(c, h.logger, "Archived plan not available", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Header(ArchiveBlobHeader, result.BlobName)
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
