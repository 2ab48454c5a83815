package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// UserHandler serves account management routes.
type UserHandler struct {
	service ports.AccountService
}

func NewUserHandler(service ports.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int   false  "Page number (default 1)"
// @Param        page_size  query     int   false  "Items per page (1-100, default 10)"
// @Param        role_id    query     int   false  "Filter by role id"
// @Param        is_active  query     bool  false  "Filter by active status"
// @Success      200        {object}  userListResponse
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var filter domain.AccountFilter

	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	if page != nil {
		if *page < 1 {
			return domain.NewValidationError("page", "page must be at least 1")
		}
		filter.Page = *page
	}

	size, err := queryInt(c, "page_size")
	if err != nil {
		return err
	}
	if size != nil {
		if *size < 1 {
			return domain.NewValidationError("page_size", "page_size must be between 1 and 100")
		}
		filter.PageSize = *size
	}

	role, err := queryInt(c, "role_id")
	if err != nil {
		return err
	}
	if role != nil {
		r := domain.RoleID(*role)
		filter.RoleID = &r
	}

	if filter.IsActive, err = queryBool(c, "is_active"); err != nil {
		return err
	}

	res, err := h.service.ListAccounts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(res))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	acc, err := h.service.GetAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.UpdateProfile(c.Request().Context(), c.Param("id"), toAccountPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// AssignRole handles PATCH /users/:id/role.
//
// @Summary      Assign a role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/role [patch]
func (h *UserHandler) AssignRole(c echo.Context) error {
	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.AssignRole(c.Request().Context(), c.Param("id"), domain.RoleID(*req.RoleID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// Disable handles PATCH /users/:id/disable.
//
// @Summary      Disable a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/disable [patch]
func (h *UserHandler) Disable(c echo.Context) error {
	acc, err := h.service.Disable(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// Enable handles PATCH /users/:id/enable.
//
// @Summary      Enable a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/enable [patch]
func (h *UserHandler) Enable(c echo.Context) error {
	acc, err := h.service.Enable(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// ChangePassword handles PATCH /users/:id/change-password.
//
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "User id"
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/change-password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.service.ChangePassword(c.Request().Context(), c.Param("id"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(acc))
}

// Me handles GET /me and echoes the caller's token claims.
//
// @Summary      Current identity
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeResponse(claims))
}
