package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/container"
	handlers "github.com/resumeforge/resumeforge/internal/interface/http"
	"github.com/resumeforge/resumeforge/internal/interface/middleware"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

// ExportModule wires the async export routes. Rendering is expensive, so the
// enqueue limiter is tight; status polling gets more headroom.

type ExportModule struct {
	Handler *handlers.ExportHandler
	JWT     *helpers.JWTManager
}

func NewExportModule(h *handlers.ExportHandler, jwt *helpers.JWTManager) *ExportModule {
	return &ExportModule{Handler: h, JWT: jwt}
}

func (m *ExportModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/export")
	grp.Use(middleware.Auth(container.GetRedis(), m.JWT))

	enqueueLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
	statusLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil)

	grp.POST("", enqueueLimiter, m.Handler.Enqueue)
	grp.GET("/:id", statusLimiter, m.Handler.Status)
}
