package api

import (
	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/handler"
	"github.com/callcoach/platform/internal/api/middleware"
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// NewCallsRouter builds the calls-api: the call log, analysis requests and
// operator statistics.
func NewCallsRouter(opts ServerOptions, calls ports.CallService, analyses ports.AnalysisService) *echo.Echo {
	e := newEcho(opts)

	callHandler := handler.NewCallHandler(calls)
	analysisHandler := handler.NewAnalysisHandler(analyses)
	adminOnly := middleware.RequireRole(opts.Authorizer, domain.RoleNameAdmin)
	reviewers := middleware.RequireRole(opts.Authorizer, domain.RoleNameSupervisor, domain.RoleNameAdmin)

	v1 := e.Group("/v1")

	// --- Call routes ---
	v1.POST("/calls", callHandler.Create)
	v1.GET("/calls", callHandler.List)
	v1.GET("/calls/:id", callHandler.Get)
	v1.DELETE("/calls/:id", callHandler.Delete, adminOnly)

	// --- Analysis routes ---
	v1.POST("/calls/:id/analysis", analysisHandler.Request, reviewers)
	v1.GET("/calls/:id/analysis", analysisHandler.Latest)

	// --- Operator routes ---
	v1.GET("/operators/:name/stats", callHandler.OperatorStats, reviewers)

	return e
}
