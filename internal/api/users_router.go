package api

import (
	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/handler"
	"github.com/callcoach/platform/internal/api/middleware"
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// NewUsersRouter builds the users-api: registration, login and account
// management.
func NewUsersRouter(opts ServerOptions, auth ports.AuthService, accounts ports.AccountService) *echo.Echo {
	e := newEcho(opts)

	authHandler := handler.NewAuthHandler(auth)
	userHandler := handler.NewUserHandler(accounts)
	adminOnly := middleware.RequireRole(opts.Authorizer, domain.RoleNameAdmin)

	// --- Auth routes (allow-listed) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	e.GET("/me", userHandler.Me)

	users := e.Group("/users")
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PATCH("/:id/role", userHandler.AssignRole, adminOnly)
	users.PATCH("/:id/disable", userHandler.Disable, adminOnly)
	users.PATCH("/:id/enable", userHandler.Enable, adminOnly)
	users.PATCH("/:id/change-password", userHandler.ChangePassword)

	return e
}
