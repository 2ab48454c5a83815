package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/callcoach/platform/internal/api/handler"
	"github.com/callcoach/platform/internal/api/middleware"
	"github.com/callcoach/platform/internal/core/service"
)

// ServerOptions holds what both services share when building their router.
type ServerOptions struct {
	Service              string
	AllowedOrigins       []string
	ExposeInternalErrors bool
	Log                  zerolog.Logger
	Authorizer           *service.Authorizer
	Dependencies         []handler.Pinger
}

// newEcho builds the Echo instance with global middleware, probes, metrics and
// API docs registered. Every route registered afterwards sits behind the
// Auth gate.
func newEcho(opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log, opts.ExposeInternalErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	// HTTP metrics live in a per-server registry; /metrics serves them along
	// with the domain metrics of the default registry.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "callcoach",
		Subsystem:  strings.ReplaceAll(opts.Service, "-", "_"),
		Registerer: reg,
	}))
	e.Use(middleware.Auth(opts.Authorizer))

	// --- Probes, metrics and docs (allow-listed by the gate) ---
	health := handler.NewHealthHandler(opts.Service)
	ready := handler.NewHealthDependenciesHandler(opts.Dependencies...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", ready.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/docs", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
