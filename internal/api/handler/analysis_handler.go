package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/core/ports"
)

// AnalysisHandler triggers and reads call analyses.
type AnalysisHandler struct {
	service ports.AnalysisService
}

func NewAnalysisHandler(service ports.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Request handles POST /v1/calls/:id/analysis. The job is queued and 202 is
// returned; with ?sync=true the call is scored before responding.
//
// @Summary      Analyse a call
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Call id"
// @Param        sync  query     bool    false  "Score before responding"
// @Success      200   {object}  analysisCompletedResponse
// @Success      202   {object}  analysisAcceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/calls/{id}/analysis [post]
func (h *AnalysisHandler) Request(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	sync, err := queryBool(c, "sync")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	if sync != nil && *sync {
		a, err := h.service.AnalyzeNow(ctx, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, analysisCompletedResponse{
			Message:    "Analysis completed",
			AnalysisID: a.ID,
			CallID:     a.CallID,
			Result:     a.Rubric,
		})
	}

	call, err := h.service.RequestAnalysis(ctx, id, claims.Subject)
	if err != nil {
		return err
	}
	links := callLinksFor(call.ID)
	c.Response().Header().Set(echo.HeaderLocation, links.Analysis)
	return c.JSON(http.StatusAccepted, analysisAcceptedResponse{
		Message:        "Analysis queued",
		CallID:         call.ID,
		AnalysisStatus: string(call.AnalysisStatus),
		Links:          links,
	})
}

// Latest handles GET /v1/calls/:id/analysis.
//
// @Summary      Latest analysis of a call
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call id"
// @Success      200  {object}  analysisResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/calls/{id}/analysis [get]
func (h *AnalysisHandler) Latest(c echo.Context) error {
	a, err := h.service.LatestAnalysis(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalysisResponse(a))
}
