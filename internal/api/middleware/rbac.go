package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/metrics"
	"github.com/callcoach/platform/internal/core/service"
)

// RequireRole enforces role-based access control on a single route or group.
// It must run after Auth.
func RequireRole(authorizer *service.Authorizer, allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := authorizer.Authorize(Claims(c), allowedRoles...)
			if !d.Allowed {
				metrics.AuthDecisionsTotal.WithLabelValues("authorize", "deny", d.Reason.Error()).Inc()
				return d.Reason
			}
			metrics.AuthDecisionsTotal.WithLabelValues("authorize", "allow", "role").Inc()
			return next(c)
		}
	}
}
