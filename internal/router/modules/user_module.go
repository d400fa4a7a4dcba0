package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/container"
	handlers "github.com/resumeforge/resumeforge/internal/interface/http"
	"github.com/resumeforge/resumeforge/internal/interface/middleware"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

// UserModule wires identity routes.
// Public: POST /api/signup, POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/me

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
