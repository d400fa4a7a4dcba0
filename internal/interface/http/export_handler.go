package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/application"
	"github.com/resumeforge/resumeforge/pkg/export"
	"github.com/resumeforge/resumeforge/pkg/response"
	"github.com/resumeforge/resumeforge/pkg/validation"
)

type ExportHandler struct {
	Service *application.ResumeService
	Logger  *logrus.Logger
}

func NewExportHandler(svc *application.ResumeService, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{Service: svc, Logger: logger}
}

type exportRequest struct {
	DocumentID string `json:"documentId" binding:"required,uuid"`
	Format     string `json:"format" binding:"required,oneof=pdf docx"`
}

// Enqueue accepts an export request and hands it to the worker queue. The
// artifact is rendered out of band; poll Status with the returned job id.
func (h *ExportHandler) Enqueue(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	jobID, err := h.Service.EnqueueExport(
		c.Request.Context(),
		c.GetString("userID"),
		c.GetString("userEmail"),
		req.DocumentID,
		export.Format(req.Format),
	)
	if err != nil {
		if errors.Is(err, application.ErrExportDisabled) {
			response.Error[any](c, http.StatusServiceUnavailable, "export is not available", nil)
			return
		}
		h.Logger.WithError(err).Error("export enqueue failed")
		response.Error[any](c, http.StatusBadGateway, "could not enqueue export", nil)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"jobId": jobID}, "Export queued", nil)
}

func (h *ExportHandler) Status(c *gin.Context) {
	rec, err := h.Service.ExportStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrResumeNotFound) {
			response.Error[any](c, http.StatusNotFound, "export job not found", nil)
			return
		}
		h.Logger.WithError(err).Error("export status lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "could not read export status", nil)
		return
	}
	response.Success(c, http.StatusOK, rec, "OK", nil)
}
