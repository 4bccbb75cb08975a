package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhive/superapp/api/internal/auth"
	"github.com/leadhive/superapp/api/internal/config"
	"github.com/leadhive/superapp/api/internal/handler"
	middlewarepkg "github.com/leadhive/superapp/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserAdminHandler
	Leads   *handler.LeadsHandler
	Search  *handler.SearchHandler
	Cleanup *handler.CleanupHandler
	Excel   *handler.ExcelHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	searchLimiter := middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch)
	secured.POST("/search", handlers.Search.Search, searchLimiter)
	secured.POST("/search/prompt", handlers.Search.Prompt, searchLimiter)
	secured.GET("/search/history", handlers.Search.History)
	secured.GET("/search/backups", handlers.Search.Backups)
	secured.POST("/search/restore", handlers.Search.Restore)
	secured.GET("/searches", handlers.Search.Searches)

	secured.GET("/leads", handlers.Leads.List)
	secured.POST("/leads", handlers.Leads.Create)
	secured.PATCH("/leads/:id", handlers.Leads.Update)
	secured.DELETE("/leads/:id", handlers.Leads.Delete)
	secured.GET("/leads/:id/score", handlers.Leads.Score)

	secured.GET("/leads/cleanup", handlers.Cleanup.Analyze)
	secured.POST("/leads/cleanup/format", handlers.Cleanup.Format)
	secured.POST("/leads/cleanup/delete", handlers.Cleanup.Delete)

	secured.GET("/leads/export", handlers.Excel.Export)
	secured.POST("/leads/import", handlers.Excel.Import)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
