package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/metrics"
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/service"
)

// ClaimsKey is the echo.Context key holding the *domain.Claims of an
// authenticated request.
const ClaimsKey = "claims"

// Auth is the global request gate. Allow-listed paths pass through without
// claims; every other request must carry a valid bearer token.
func Auth(authorizer *service.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := authorizer.Authenticate(c.Request().URL.Path, c.Request().Header.Get(echo.HeaderAuthorization))
			if !d.Allowed {
				metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "deny", d.Reason.Error()).Inc()
				return d.Reason
			}

			if d.Claims == nil {
				metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "allow", "public").Inc()
				return next(c)
			}

			metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "allow", "token").Inc()
			c.Set(ClaimsKey, d.Claims)
			return next(c)
		}
	}
}

// Claims returns the claims attached by Auth, or nil.
func Claims(c echo.Context) *domain.Claims {
	claims, _ := c.Get(ClaimsKey).(*domain.Claims)
	return claims
}
