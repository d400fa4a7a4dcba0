package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/container"
	handlers "github.com/resumeforge/resumeforge/internal/interface/http"
	"github.com/resumeforge/resumeforge/internal/interface/middleware"
)

// ResumeModule wires the email-keyed document routes and the template
// catalog. These predate the workspace and stay public for compatibility.
// POST /api/resume, GET /api/resume/:email, GET /api/resumes/:email,
// GET /api/resumes/search, GET /api/templates

type ResumeModule struct {
	Handler *handlers.ResumeHandler
}

func NewResumeModule(h *handlers.ResumeHandler) *ResumeModule {
	return &ResumeModule{Handler: h}
}

func (m *ResumeModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/resume", writeLimiter, m.Handler.Save)
	rg.GET("/resume/:email", readLimiter, m.Handler.GetByEmail)
	rg.GET("/resumes/search", readLimiter, m.Handler.Search)
	rg.GET("/resumes/:email", readLimiter, m.Handler.ListByEmail)
	rg.GET("/templates", readLimiter, m.Handler.Templates)
}
