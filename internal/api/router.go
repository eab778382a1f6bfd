package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cdportal/admin-console/internal/api/handler"
	"github.com/cdportal/admin-console/internal/api/middleware"
	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
)

// Session is what the router needs from the process session.
type Session interface {
	handler.SessionController
	middleware.Rejecter
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Session   Session
	Companies ports.CompanyService
	Drivers   ports.DriverService
	Users     ports.UserService
	// Audit is nil when auditing is disabled; /audit is then not served.
	Audit    ports.AuditReader
	Health   map[string]handler.Pinger
	PageSize int
	Log      zerolog.Logger
	// Debug enables echo's debug mode.
	Debug bool
	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = d.Debug
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "admin_console",
		Registerer: registerer,
	}))

	// --- Operational routes (no session required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Session ---
	sessionHandler := handler.NewSessionHandler(d.Session)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Current)
	e.GET("/permissions", handler.NewPermissionsHandler(d.Session).Get)

	// --- Gated resources ---
	gate := []echo.MiddlewareFunc{
		middleware.ResetOnRejection(d.Session),
		middleware.RequireSession(d.Session),
	}

	companies := handler.NewCompanyHandler(d.Companies, d.PageSize)
	cg := e.Group("/companies", gate...)
	cg.GET("", companies.Search, middleware.Permit(rbac.ResourceCompany, rbac.OpSearch))
	cg.GET("/:id", companies.Get, middleware.Permit(rbac.ResourceCompany, rbac.OpView))
	cg.POST("", companies.Create, middleware.Permit(rbac.ResourceCompany, rbac.OpCreate))
	cg.PUT("/:id", companies.Update, middleware.Permit(rbac.ResourceCompany, rbac.OpUpdate))
	cg.DELETE("/:id", companies.Delete, middleware.Permit(rbac.ResourceCompany, rbac.OpDelete))

	drivers := handler.NewDriverHandler(d.Drivers, d.PageSize)
	dg := e.Group("/drivers", gate...)
	dg.GET("", drivers.Search, middleware.Permit(rbac.ResourceDriver, rbac.OpSearch))
	dg.GET("/:id", drivers.Get, middleware.Permit(rbac.ResourceDriver, rbac.OpView))
	dg.POST("", drivers.Create, middleware.Permit(rbac.ResourceDriver, rbac.OpCreate))
	dg.PUT("/:id", drivers.Update, middleware.Permit(rbac.ResourceDriver, rbac.OpUpdate))
	dg.DELETE("/:id", drivers.Delete, middleware.Permit(rbac.ResourceDriver, rbac.OpDelete))

	users := handler.NewUserHandler(d.Users)
	ug := e.Group("/users", gate...)
	ug.GET("", users.List, middleware.Permit(rbac.ResourceUser, rbac.OpView))
	ug.POST("", users.Register, middleware.Permit(rbac.ResourceUser, rbac.OpCreate))
	ug.DELETE("/:id", users.Delete, middleware.Permit(rbac.ResourceUser, rbac.OpDelete))
	ug.PUT("/:id/role", users.UpdateRole, middleware.Permit(rbac.ResourceUser, rbac.OpUpdateRole))

	if d.Audit != nil {
		ag := e.Group("/audit", gate...)
		ag.GET("", handler.NewAuditHandler(d.Audit).Recent, middleware.RBAC(domain.RoleSuperAdmin))
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
