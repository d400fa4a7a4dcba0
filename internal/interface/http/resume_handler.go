package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/application"
	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/pkg/response"
	"github.com/resumeforge/resumeforge/pkg/validation"
)

type ResumeHandler struct {
	Service *application.ResumeService
	Logger  *logrus.Logger
}

func NewResumeHandler(svc *application.ResumeService, logger *logrus.Logger) *ResumeHandler {
	return &ResumeHandler{Service: svc, Logger: logger}
}

// SaveResumeRequest is the legacy save payload: the whole document plus the
// owner email and template choice.
type SaveResumeRequest struct {
	Email    string                 `json:"email" binding:"required,email"`
	Template string                 `json:"template" binding:"required"`
	Data     *entity.ResumeDocument `json:"data" binding:"required"`
}

func (h *ResumeHandler) Save(c *gin.Context) {
	var req SaveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	if _, err := h.Service.SaveForEmail(c.Request.Context(), req.Email, req.Template, req.Data); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "User not found", nil)
			return
		}
		var vErr *validation.DocumentError
		if errors.As(err, &vErr) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid document", vErr.Details())
			return
		}
		h.Logger.WithError(err).Error("resume save failed")
		response.Error[any](c, http.StatusInternalServerError, "could not save resume", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Resume saved successfully", nil)
}

func (h *ResumeHandler) GetByEmail(c *gin.Context) {
	doc, err := h.Service.ResumeByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, application.ErrResumeNotFound) {
			response.Error[any](c, http.StatusNotFound, "Resume not found", nil)
			return
		}
		h.Logger.WithError(err).Error("resume fetch failed")
		response.Error[any](c, http.StatusInternalServerError, "could not fetch resume", nil)
		return
	}
	response.Success(c, http.StatusOK, doc, "OK", nil)
}

// ListByEmail returns every document owned by the email, newest first. An
// unknown email yields an empty list, not 404.
func (h *ResumeHandler) ListByEmail(c *gin.Context) {
	docs, err := h.Service.ResumesByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.Logger.WithError(err).Error("resume list failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list resumes", nil)
		return
	}
	response.Success(c, http.StatusOK, docs, "OK", gin.H{"count": len(docs)})
}

func (h *ResumeHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Service.SearchResumes(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("resume search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "OK", gin.H{"count": len(hits)})
}

// Templates returns the fixed template catalog.
func (h *ResumeHandler) Templates(c *gin.Context) {
	response.Success(c, http.StatusOK, entity.Templates, "OK", gin.H{"count": len(entity.Templates)})
}
