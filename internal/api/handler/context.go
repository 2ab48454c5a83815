package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/middleware"
	"github.com/callcoach/platform/internal/core/domain"
)

// ctxClaims returns the claims injected by the Auth middleware. Their absence
// means the route was mounted without the gate and is reported as
// unauthenticated rather than served anonymously.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return claims, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	return c.Validate(req)
}

// queryInt parses an optional integer query parameter; nil when absent.
func queryInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, name+" must be an integer")
	}
	return &v, nil
}

// queryBool parses an optional boolean query parameter; nil when absent.
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, name+" must be a boolean")
	}
	return &v, nil
}
