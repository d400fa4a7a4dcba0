package router

import "github.com/gin-gonic/gin"

// Module is one mounted feature area (users, resumes, workspace, export).
// Each module owns its middleware chain and registers its routes on the
// shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
