package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/factoryhq/console/internal/api/handler"
	"github.com/factoryhq/console/internal/api/middleware"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// RouterConfig carries the settings the route table needs.
type RouterConfig struct {
	CookieSecret string
	SessionTTL   time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Route layout mirrors the platform's navigation surface: public sign-in and
// unauthorized views, a role-redirecting /dashboard, the unparameterised
// superadmin view, and factory-scoped views parameterised by factory code.
func NewRouter(cfg RouterConfig, manager ports.SessionManager, upstream ports.Backend, store ports.SessionStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("console"))
	e.Use(middleware.Session(manager, cfg.CookieSecret))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(manager, cfg.CookieSecret, cfg.SessionTTL)
	dashHandler := handler.NewDashboardHandler(upstream)
	factoryHandler := handler.NewFactoryHandler(upstream)
	userHandler := handler.NewUserHandler(upstream)
	healthHandler := handler.NewHealthHandler()
	readyHandler := handler.NewReadinessHandler(store, manager)

	// --- Public routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "factory-console"})
	})
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Current)
	e.GET("/unauthorized", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "you do not have access to this page"})
	})

	// --- Probes and metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Guarded routes ---
	guard := func(role domain.Role, tenant bool) echo.MiddlewareFunc {
		return middleware.Guard(manager, role, tenant)
	}

	e.GET("/dashboard", dashHandler.Home, guard("", false))

	e.GET("/superadmin", dashHandler.Superadmin, guard(domain.RoleSuperadmin, false))
	e.POST("/superadmin/factories", factoryHandler.Create, guard(domain.RoleSuperadmin, false))

	e.GET("/factory/:code/admin", dashHandler.Admin, guard(domain.RoleAdmin, true))
	e.GET("/factory/:code/supervisor", dashHandler.Supervisor, guard(domain.RoleSupervisor, true))
	e.GET("/factory/:code/employee", dashHandler.Employee, guard(domain.RoleEmployee, true))

	e.GET("/factory/:code/users", userHandler.List, guard(domain.RoleAdmin, true))
	e.POST("/factory/:code/users", userHandler.Create, guard(domain.RoleAdmin, true))
	e.PUT("/users/:id", userHandler.Update, guard(domain.RoleAdmin, true))
	e.DELETE("/users/:id", userHandler.Delete, guard(domain.RoleAdmin, true))

	return e
}
