package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/application/sections"
	"github.com/resumeforge/resumeforge/internal/application/workspace"
	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/pkg/preview"
	"github.com/resumeforge/resumeforge/pkg/response"
	"github.com/resumeforge/resumeforge/pkg/validation"
)

// WorkspaceHandler exposes the per-identity editing workspace: document
// lifecycle, whole-section replacement, the granular section editor
// operations, manual save, and the HTML preview.
type WorkspaceHandler struct {
	Manager *workspace.Manager
	Logger  *logrus.Logger
}

func NewWorkspaceHandler(m *workspace.Manager, logger *logrus.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{Manager: m, Logger: logger}
}

func (h *WorkspaceHandler) ws(c *gin.Context) *workspace.Workspace {
	return h.Manager.Workspace(c.GetString("userID"))
}

type createDocumentRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

func (h *WorkspaceHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	id, err := h.ws(c).CreateDocument(req.TemplateID)
	if err != nil {
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"documentId": id}, "Document created", nil)
}

// Load replaces the workspace collection with the persisted documents.
func (h *WorkspaceHandler) Load(c *gin.Context) {
	ws := h.ws(c)
	if err := ws.LoadDocuments(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Error("workspace load failed")
		response.Error[any](c, http.StatusBadGateway, "could not load documents", nil)
		return
	}
	docs := ws.Documents()
	response.Success(c, http.StatusOK, docs, "OK", gin.H{"count": len(docs)})
}

func (h *WorkspaceHandler) Documents(c *gin.Context) {
	docs := h.ws(c).Documents()
	response.Success(c, http.StatusOK, docs, "OK", gin.H{"count": len(docs)})
}

type selectRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// Select sets the workspace selection. An id not present in the collection
// clears the selection and reports it as null.
func (h *WorkspaceHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	ws := h.ws(c)
	ws.SelectDocument(req.DocumentID)
	response.Success(c, http.StatusOK, ws.Selected(), "OK", nil)
}

func (h *WorkspaceHandler) Selected(c *gin.Context) {
	response.Success(c, http.StatusOK, h.ws(c).Selected(), "OK", nil)
}

// ReplaceSection is the whole-section replacement endpoint. The path names
// the section; the body carries the full replacement value for it.
func (h *WorkspaceHandler) ReplaceSection(c *gin.Context) {
	ws := h.ws(c)
	if ws.Selected() == nil {
		response.Error[any](c, http.StatusConflict, "no document selected", nil)
		return
	}

	var update entity.SectionUpdate
	switch c.Param("section") {
	case "contact":
		var u entity.ContactUpdate
		if err := c.ShouldBindJSON(&u.Contact); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		update = u
	case "education":
		var list []entity.Education
		if err := c.ShouldBindJSON(&list); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		update = entity.EducationUpdate{Education: list}
	case "experience":
		var list []entity.Experience
		if err := c.ShouldBindJSON(&list); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		update = entity.ExperienceUpdate{Experience: list}
	case "skills":
		var list []entity.Skill
		if err := c.ShouldBindJSON(&list); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		update = entity.SkillsUpdate{Skills: list}
	case "projects":
		var list []entity.Project
		if err := c.ShouldBindJSON(&list); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}
		update = entity.ProjectsUpdate{Projects: list}
	default:
		response.Error[any](c, http.StatusNotFound, "unknown section", nil)
		return
	}

	ws.ReplaceSection(update)
	response.Success(c, http.StatusOK, ws.Selected(), "Section updated", nil)
}

// AddItem appends an empty entry to a list section of the selected document.
func (h *WorkspaceHandler) AddItem(c *gin.Context) {
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "education":
			return entity.EducationUpdate{Education: sections.AddEducation(doc.Education)}, nil
		case "experience":
			return entity.ExperienceUpdate{Experience: sections.AddExperience(doc.Experience)}, nil
		case "projects":
			return entity.ProjectsUpdate{Projects: sections.AddProject(doc.Projects)}, nil
		}
		return nil, errUnknownSection
	})
}

// UpdateItem replaces the fields of the entry at the index. Entry ids are
// stable; the payload never changes them.
func (h *WorkspaceHandler) UpdateItem(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "education":
			var v entity.Education
			if err := c.ShouldBindJSON(&v); err != nil {
				return nil, err
			}
			list, err := sections.UpdateEducation(doc.Education, i, v)
			if err != nil {
				return nil, err
			}
			return entity.EducationUpdate{Education: list}, nil
		case "experience":
			var v entity.Experience
			if err := c.ShouldBindJSON(&v); err != nil {
				return nil, err
			}
			list, err := sections.UpdateExperience(doc.Experience, i, v)
			if err != nil {
				return nil, err
			}
			return entity.ExperienceUpdate{Experience: list}, nil
		case "projects":
			var v entity.Project
			if err := c.ShouldBindJSON(&v); err != nil {
				return nil, err
			}
			list, err := sections.UpdateProject(doc.Projects, i, v)
			if err != nil {
				return nil, err
			}
			return entity.ProjectsUpdate{Projects: list}, nil
		}
		return nil, errUnknownSection
	})
}

// RemoveItem removes the entry at the index, preserving order of the rest.
func (h *WorkspaceHandler) RemoveItem(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "education":
			list, err := sections.RemoveEducationAt(doc.Education, i)
			if err != nil {
				return nil, err
			}
			return entity.EducationUpdate{Education: list}, nil
		case "experience":
			list, err := sections.RemoveExperienceAt(doc.Experience, i)
			if err != nil {
				return nil, err
			}
			return entity.ExperienceUpdate{Experience: list}, nil
		case "projects":
			list, err := sections.RemoveProjectAt(doc.Projects, i)
			if err != nil {
				return nil, err
			}
			return entity.ProjectsUpdate{Projects: list}, nil
		}
		return nil, errUnknownSection
	})
}

// RemoveItemByID removes the entry with the matching id, if present.
func (h *WorkspaceHandler) RemoveItemByID(c *gin.Context) {
	id := c.Param("id")
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "education":
			return entity.EducationUpdate{Education: sections.RemoveEducationByID(doc.Education, id)}, nil
		case "experience":
			return entity.ExperienceUpdate{Experience: sections.RemoveExperienceByID(doc.Experience, id)}, nil
		case "projects":
			return entity.ProjectsUpdate{Projects: sections.RemoveProjectByID(doc.Projects, id)}, nil
		}
		return nil, errUnknownSection
	})
}

func (h *WorkspaceHandler) AddBullet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "experience":
			list, err := sections.AddExperienceBullet(doc.Experience, i)
			if err != nil {
				return nil, err
			}
			return entity.ExperienceUpdate{Experience: list}, nil
		case "projects":
			list, err := sections.AddProjectBullet(doc.Projects, i)
			if err != nil {
				return nil, err
			}
			return entity.ProjectsUpdate{Projects: list}, nil
		}
		return nil, errUnknownSection
	})
}

type bulletRequest struct {
	Text string `json:"text"`
}

func (h *WorkspaceHandler) UpdateBullet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	j, ok := pathIndex(c, "bullet")
	if !ok {
		return
	}
	var req bulletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "experience":
			list, err := sections.UpdateExperienceBullet(doc.Experience, i, j, req.Text)
			if err != nil {
				return nil, err
			}
			return entity.ExperienceUpdate{Experience: list}, nil
		case "projects":
			list, err := sections.UpdateProjectBullet(doc.Projects, i, j, req.Text)
			if err != nil {
				return nil, err
			}
			return entity.ProjectsUpdate{Projects: list}, nil
		}
		return nil, errUnknownSection
	})
}

func (h *WorkspaceHandler) RemoveBullet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	j, ok := pathIndex(c, "bullet")
	if !ok {
		return
	}
	h.editList(c, func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		switch c.Param("section") {
		case "experience":
			list, err := sections.RemoveExperienceBullet(doc.Experience, i, j)
			if err != nil {
				return nil, err
			}
			return entity.ExperienceUpdate{Experience: list}, nil
		case "projects":
			list, err := sections.RemoveProjectBullet(doc.Projects, i, j)
			if err != nil {
				return nil, err
			}
			return entity.ProjectsUpdate{Projects: list}, nil
		}
		return nil, errUnknownSection
	})
}

// AddSkill commits a skill draft. A draft whose trimmed name is empty is
// rejected with 422 and the section stays unchanged.
func (h *WorkspaceHandler) AddSkill(c *gin.Context) {
	var draft sections.SkillDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	ws := h.ws(c)
	err := ws.Edit(func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		list, ok := sections.AddSkill(doc.Skills, draft)
		if !ok {
			return nil, errEmptySkillName
		}
		return entity.SkillsUpdate{Skills: list}, nil
	})
	if err != nil {
		if errors.Is(err, errEmptySkillName) {
			response.Error[any](c, http.StatusUnprocessableEntity, "skill name must not be empty", nil)
			return
		}
		response.Error[any](c, http.StatusConflict, "no document selected", nil)
		return
	}
	response.Success(c, http.StatusOK, ws.Selected(), "Skill added", nil)
}

func (h *WorkspaceHandler) RemoveSkill(c *gin.Context) {
	ws := h.ws(c)
	err := ws.Edit(func(doc *entity.ResumeDocument) (entity.SectionUpdate, error) {
		return entity.SkillsUpdate{Skills: sections.RemoveSkillByID(doc.Skills, c.Param("id"))}, nil
	})
	if err != nil {
		response.Error[any](c, http.StatusConflict, "no document selected", nil)
		return
	}
	response.Success(c, http.StatusOK, ws.Selected(), "Skill removed", nil)
}

// Save persists the selected document immediately, superseding any pending
// autosave.
func (h *WorkspaceHandler) Save(c *gin.Context) {
	ws := h.ws(c)
	if err := ws.SaveDocument(c.Request.Context()); err != nil {
		if errors.Is(err, workspace.ErrNoSelection) {
			response.Error[any](c, http.StatusConflict, "no document selected", nil)
			return
		}
		var vErr *validation.DocumentError
		if errors.As(err, &vErr) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid document", vErr.Details())
			return
		}
		h.Logger.WithError(err).Error("manual save failed")
		response.Error[any](c, http.StatusBadGateway, "could not save document", nil)
		return
	}
	response.Success(c, http.StatusOK, ws.Selected(), "Document saved", nil)
}

// Preview renders the selected document against its template and returns
// standalone HTML.
func (h *WorkspaceHandler) Preview(c *gin.Context) {
	doc := h.ws(c).Selected()
	if doc == nil {
		response.Error[any](c, http.StatusConflict, "no document selected", nil)
		return
	}
	html, err := preview.Render(doc, entity.TemplateByID(doc.TemplateID))
	if err != nil {
		h.Logger.WithError(err).Error("preview render failed")
		response.Error[any](c, http.StatusInternalServerError, "could not render preview", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

var (
	errUnknownSection = errors.New("unknown section")
	errEmptySkillName = errors.New("skill name must not be empty")
)

// editList runs one granular editor operation through Workspace.Edit, so the
// read-transform-replace cycle holds the workspace lock and concurrent
// requests from the same session cannot lose each other's edits.
func (h *WorkspaceHandler) editList(c *gin.Context, fn func(doc *entity.ResumeDocument) (entity.SectionUpdate, error)) {
	ws := h.ws(c)
	if err := ws.Edit(fn); err != nil {
		switch {
		case errors.Is(err, workspace.ErrNoSelection), errors.Is(err, workspace.ErrClosed):
			response.Error[any](c, http.StatusConflict, "no document selected", nil)
		case errors.Is(err, errUnknownSection):
			response.Error[any](c, http.StatusNotFound, "unknown section", nil)
		case errors.Is(err, sections.ErrIndexOutOfRange):
			response.Error[any](c, http.StatusUnprocessableEntity, "index out of range", nil)
		default:
			response.Error[any](c, http.StatusBadRequest, "invalid payload", err.Error())
		}
		return
	}
	response.Success(c, http.StatusOK, ws.Selected(), "Section updated", nil)
}

func pathIndex(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid index", nil)
		return 0, false
	}
	return i, true
}
