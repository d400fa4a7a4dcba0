package router

import (
	"github.com/resumeforge/resumeforge/internal/application"
	"github.com/resumeforge/resumeforge/internal/container"
	pginfra "github.com/resumeforge/resumeforge/internal/infrastructure/postgres"
	handlers "github.com/resumeforge/resumeforge/internal/interface/http"
	"github.com/resumeforge/resumeforge/internal/router/modules"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

type Deps struct {
	UserService   *application.UserService
	ResumeService *application.ResumeService

	UserHandler      *handlers.UserHandler
	ResumeHandler    *handlers.ResumeHandler
	WorkspaceHandler *handlers.WorkspaceHandler
	ExportHandler    *handlers.ExportHandler
}

func buildDeps() Deps {
	pool := container.GetPGPool()
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(pool)
	resumeRepo := pginfra.NewResumeRepository(pool)

	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger)
	resumeSvc := application.NewResumeService(
		resumeRepo,
		userRepo,
		pginfra.NewExportRepository(pool),
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESResumesIndex,
		container.GetRabbitPub(),
	)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	mgr := container.GetWorkspaceManager()

	return Deps{
		UserService:   userSvc,
		ResumeService: resumeSvc,

		UserHandler:      handlers.NewUserHandler(userSvc, mgr, cookies, logger),
		ResumeHandler:    handlers.NewResumeHandler(resumeSvc, logger),
		WorkspaceHandler: handlers.NewWorkspaceHandler(mgr, logger),
		ExportHandler:    handlers.NewExportHandler(resumeSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()

	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewResumeModule(deps.ResumeHandler))
	r.Add(modules.NewWorkspaceModule(deps.WorkspaceHandler, container.GetJWT()))
	r.Add(modules.NewExportModule(deps.ExportHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
