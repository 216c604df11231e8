package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/xivapi/common-backend/internal/api/handler"
	"github.com/xivapi/common-backend/internal/api/middleware"
	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

const metricsSubsystem = "http"

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Auth        ports.AuthService
	Alerts      ports.AlertService
	Maintenance ports.MaintenanceService
	Reporter    ports.ErrorReporter
	// Readiness is optional; without it only the liveness probe is served.
	Readiness *handler.ReadinessHandler

	ShowErrors   bool
	SecureCookie bool
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = deps.ShowErrors
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(e, deps.Reporter, deps.ShowErrors, deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))
	e.Use(middleware.Session(deps.Auth))

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	accounts := handler.NewAccountHandler(deps.Auth, deps.SecureCookie)
	alerts := handler.NewAlertHandler(deps.Alerts, deps.Auth)
	maintenance := handler.NewMaintenanceHandler(deps.Maintenance)

	// --- Login flow ---
	e.GET("/account/login", accounts.Login)
	e.GET("/account/login/discord/success", accounts.LoginCallback)
	e.GET("/account/logout", accounts.Logout)

	// --- Signed-in account ---
	account := e.Group("/account", middleware.RequireUser())
	account.GET("", accounts.Me)
	account.POST("/api-key", accounts.RotateAPIKey)
	account.POST("/benefits/sync", accounts.SyncBenefits)
	account.GET("/alerts", alerts.List)
	account.POST("/alerts", alerts.Create)
	account.POST("/alerts/refresh", alerts.Refresh)

	e.GET("/patrons", accounts.Patrons)

	// --- API key routes ---
	api := e.Group("/api", middleware.APIKey(deps.Auth))
	api.GET("/me", accounts.APIMe)

	e.GET("/maintenance", maintenance.Get)
	e.PUT("/maintenance", maintenance.Update,
		middleware.RequireUser(),
		middleware.RequirePermission(domain.PermissionAdmin),
	)

	return e
}
