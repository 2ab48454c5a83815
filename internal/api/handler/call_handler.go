package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/metrics"
	"github.com/callcoach/platform/internal/core/ports"
)

// CallHandler handles HTTP requests for the call log.
type CallHandler struct {
	service ports.CallService
}

func NewCallHandler(service ports.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// Create handles POST /v1/calls.
//
// @Summary      Log a call
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCallRequest  true  "Call details and optional transcript"
// @Success      201   {object}  callResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/calls [post]
func (h *CallHandler) Create(c echo.Context) error {
	var req createCallRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	call, err := h.service.CreateCall(c.Request().Context(), toCreateCallInput(req))
	if err != nil {
		return err
	}

	metrics.CallsCreatedTotal.WithLabelValues(strconv.FormatBool(call.HasTranscript())).Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/calls/"+call.ID)
	return c.JSON(http.StatusCreated, toCallResponse(call))
}

// List handles GET /v1/calls.
//
// @Summary      List recent calls
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max calls to return (default 50, max 200)"
// @Success      200    {array}   callResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/calls [get]
func (h *CallHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	calls, err := h.service.ListCalls(c.Request().Context(), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCallListResponse(calls))
}

// Get handles GET /v1/calls/:id.
//
// @Summary      Get a call
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  callResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/calls/{id} [get]
func (h *CallHandler) Get(c echo.Context) error {
	call, err := h.service.GetCall(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCallResponse(call))
}

// Delete handles DELETE /v1/calls/:id.
//
// @Summary      Delete a call
// @Tags         calls
// @Security     BearerAuth
// @Param        id   path  string  true  "Call id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/calls/{id} [delete]
func (h *CallHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCall(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// OperatorStats handles GET /v1/operators/:name/stats.
//
// @Summary      Operator statistics
// @Tags         operators
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Operator name"
// @Success      200   {object}  domain.OperatorStats
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/operators/{name}/stats [get]
func (h *CallHandler) OperatorStats(c echo.Context) error {
	stats, err := h.service.OperatorStats(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
