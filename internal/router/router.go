package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/da-dashboard/internal/config"
	"github.com/iliyamo/da-dashboard/internal/handler"
	"github.com/iliyamo/da-dashboard/internal/middleware"
	"github.com/iliyamo/da-dashboard/internal/model"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth    *handler.AuthHandler
	DAUsers *handler.DAUserHandler
	Stats   *handler.StatsHandler
}

// RegisterRoutes registers the probes, which need no authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers login (rate limited) and the admin-only credential
// table diagnostic.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, cfg config.Config, rdb *redis.Client, log *zap.Logger) {
	g := e.Group("/api/auth")
	g.POST("/login", h.Login, middleware.LoginRateLimit(cfg.LoginRate, rdb, log))
	g.GET("/check-table", h.CheckTable,
		middleware.BearerAuth(cfg.TokenSecret),
		middleware.RequireKind(model.KindAdministrator),
	)
}

// RegisterAPI registers the bearer-protected DA and KPI endpoints.
func RegisterAPI(e *echo.Echo, d *handler.DAUserHandler, s *handler.StatsHandler, secret string) {
	api := e.Group("/api", middleware.BearerAuth(secret))
	api.GET("/da-users", d.List)
	api.PATCH("/da-users", d.Update)
	api.GET("/da-users/filters", d.Filters)
	api.GET("/kpis", s.KPIs)
}

// RegisterPublic registers the unauthenticated statistics endpoint behind
// the Redis response cache.
func RegisterPublic(e *echo.Echo, s *handler.StatsHandler, cfg config.StatsCacheConfig, rdb *redis.Client, log *zap.Logger) {
	e.GET("/api/public-stats", s.PublicStats, middleware.StatsCache(cfg, rdb, log))
}

// Register wires every route group.
func Register(e *echo.Echo, db *sql.DB, h Handlers, cfg config.Config, rdb *redis.Client, log *zap.Logger) {
	RegisterRoutes(e, db)
	RegisterAuth(e, h.Auth, cfg, rdb, log)
	RegisterPublic(e, h.Stats, cfg.Cache, rdb, log)
	RegisterAPI(e, h.DAUsers, h.Stats, cfg.TokenSecret)
}
