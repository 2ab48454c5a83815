package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

// errorStatus maps every known domain error to its HTTP status. The detail
// sent to the client is the error's own message.
var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrDuplicateEmail, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrRoleNotFound, http.StatusBadRequest},
	{domain.ErrAlreadyDisabled, http.StatusBadRequest},
	{domain.ErrAlreadyEnabled, http.StatusBadRequest},
	{domain.ErrWrongCurrentPassword, http.StatusBadRequest},
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrAccountDisabled, http.StatusForbidden},

	{domain.ErrTokenMissing, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrTokenInvalidSignature, http.StatusUnauthorized},
	{domain.ErrTokenMalformed, http.StatusUnauthorized},
	{domain.ErrMissingAuthHeader, http.StatusUnauthorized},
	{domain.ErrNotAuthenticated, http.StatusUnauthorized},
	{domain.ErrPermissionDenied, http.StatusForbidden},

	{domain.ErrCallNotFound, http.StatusNotFound},
	{domain.ErrTranscriptMissing, http.StatusBadRequest},
	{domain.ErrTranscriptNotFound, http.StatusNotFound},
	{domain.ErrAnalysisNotFound, http.StatusNotFound},
	{domain.ErrAnalysisInProgress, http.StatusConflict},
	{domain.ErrOperatorNotFound, http.StatusNotFound},
	{domain.ErrScorerUnavailable, http.StatusServiceUnavailable},
	{domain.ErrScoringOutput, http.StatusBadGateway},
	{domain.ErrQueueClosed, http.StatusServiceUnavailable},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors and only shows their message when exposeInternal is set.
//   - Renders a consistent JSON envelope: {"status_code": <int>, "detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, exposeInternal, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{StatusCode: code, Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, exposeInternal bool, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status, clientMessage(err, m.err)
		}
	}

	// Unexpected error: log the real cause.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if exposeInternal {
		return http.StatusInternalServerError, "Unexpected error: " + err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// clientMessage prefers a ValidationError's own text; wrapped sentinels are
// reported by the sentinel message so store details never leak.
func clientMessage(err, sentinel error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return sentinel.Error()
}
