package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/presence-analyzer/dashboard/internal/api/docs"
	"github.com/presence-analyzer/dashboard/internal/api/handler"
	"github.com/presence-analyzer/dashboard/internal/api/middleware"
	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/http/handlers"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/websocket"
)

// Deps carries what the router wires into handlers.
type Deps struct {
	Registry    handler.DashboardRegistry
	Hub         *websocket.Hub
	Presence    handlers.Pinger
	Redis       *redis.Client // nil when the catalog cache is disabled
	DefaultView domain.ViewSpec
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title        Presence Dashboard API
// @version      1.0
// @description  Selection-driven presence dashboard: user catalog, photo and presence charts.
// @BasePath     /
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("presence_dashboard_http"))

	// --- Dependencies ---
	pages := handler.NewPageHandler(deps.Registry, deps.DefaultView)
	dashboards := handler.NewDashboardHandler(deps.Registry, deps.DefaultView)
	streams := handler.NewStreamHandler(deps.Registry, deps.Hub, deps.DefaultView, deps.Log)

	// --- Dashboard pages ---
	session := middleware.Session()
	e.GET("/", pages.Index)
	for _, v := range domain.Views() {
		e.GET(v.PagePath, pages.Page(v), session)
	}

	// --- Dashboard API ---
	g := e.Group("/dashboard", session)
	g.GET("/state", dashboards.State)
	g.POST("/selection", dashboards.Selection)
	g.GET("/ws", streams.Stream)

	// --- Health checks ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Presence, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the presence API up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
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
