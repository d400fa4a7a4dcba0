package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/container"
	handlers "github.com/resumeforge/resumeforge/internal/interface/http"
	"github.com/resumeforge/resumeforge/internal/interface/middleware"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

// WorkspaceModule wires the authenticated editing workspace. Every route is
// scoped to the session identity; the edit limiter is per user so one busy
// editor cannot starve another behind the same NAT.

type WorkspaceModule struct {
	Handler *handlers.WorkspaceHandler
	JWT     *helpers.JWTManager
}

func NewWorkspaceModule(h *handlers.WorkspaceHandler, jwt *helpers.JWTManager) *WorkspaceModule {
	return &WorkspaceModule{Handler: h, JWT: jwt}
}

func (m *WorkspaceModule) Register(rg *gin.RouterGroup) {
	ws := rg.Group("/workspace")
	ws.Use(middleware.Auth(container.GetRedis(), m.JWT))
	ws.Use(middleware.RateLimit(container.GetRedis(), 600, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))

	ws.POST("/documents", m.Handler.CreateDocument)
	ws.GET("/documents", m.Handler.Documents)
	ws.POST("/load", m.Handler.Load)

	ws.PUT("/selection", m.Handler.Select)
	ws.GET("/selected", m.Handler.Selected)

	ws.PUT("/sections/:section", m.Handler.ReplaceSection)

	ws.POST("/sections/:section/items", m.Handler.AddItem)
	ws.PUT("/sections/:section/items/:index", m.Handler.UpdateItem)
	ws.DELETE("/sections/:section/items/:index", m.Handler.RemoveItem)
	ws.DELETE("/sections/:section/entries/:id", m.Handler.RemoveItemByID)

	ws.POST("/sections/:section/items/:index/bullets", m.Handler.AddBullet)
	ws.PUT("/sections/:section/items/:index/bullets/:bullet", m.Handler.UpdateBullet)
	ws.DELETE("/sections/:section/items/:index/bullets/:bullet", m.Handler.RemoveBullet)

	ws.POST("/skills", m.Handler.AddSkill)
	ws.DELETE("/skills/:id", m.Handler.RemoveSkill)

	ws.POST("/save", m.Handler.Save)
	ws.GET("/preview", m.Handler.Preview)
}
