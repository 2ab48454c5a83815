package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
)

func render(t *testing.T, err error, expose bool) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), expose)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.StatusCode != rec.Code {
		t.Fatalf("envelope status %d differs from response %d", body.StatusCode, rec.Code)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{domain.ErrDuplicateEmail, http.StatusBadRequest, "email already registered"},
		{domain.ErrInvalidRole, http.StatusBadRequest, "invalid role_id"},
		{domain.ErrAccountNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrAccountDisabled, http.StatusForbidden, "user account is disabled"},
		{domain.ErrAlreadyDisabled, http.StatusBadRequest, "user is already disabled"},
		{domain.ErrWrongCurrentPassword, http.StatusBadRequest, "current password is incorrect"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "token has expired"},
		{domain.ErrMissingAuthHeader, http.StatusUnauthorized, "missing or invalid authorization header"},
		{domain.ErrPermissionDenied, http.StatusForbidden, "not enough permissions"},
		{domain.ErrQueueClosed, http.StatusServiceUnavailable, "analysis queue is shutting down"},
		{domain.ErrAnalysisInProgress, http.StatusConflict, "analysis already in progress"},
		{domain.ErrTranscriptMissing, http.StatusBadRequest, "call has no transcript"},
		{fmt.Errorf("get call 42: %w", domain.ErrCallNotFound), http.StatusNotFound, "call not found"},
	}
	for _, tc := range cases {
		code, body := render(t, tc.err, false)
		if code != tc.status || body.Detail != tc.detail {
			t.Errorf("%v: got %d %q, want %d %q", tc.err, code, body.Detail, tc.status, tc.detail)
		}
	}
}

func TestErrorHandler_ValidationMessage(t *testing.T) {
	code, body := render(t, domain.NewValidationError("first_name", "Name must be at least 2 characters long"), false)
	if code != http.StatusBadRequest || body.Detail != "Name must be at least 2 characters long" {
		t.Fatalf("got %d %q", code, body.Detail)
	}
}

func TestErrorHandler_Unexpected(t *testing.T) {
	boom := errors.New("connection reset")

	code, body := render(t, boom, true)
	if code != http.StatusInternalServerError || body.Detail != "Unexpected error: connection reset" {
		t.Fatalf("exposed: got %d %q", code, body.Detail)
	}

	code, body = render(t, boom, false)
	if code != http.StatusInternalServerError || body.Detail != "internal server error" {
		t.Fatalf("hidden: got %d %q", code, body.Detail)
	}
}

func TestErrorHandler_EchoError(t *testing.T) {
	code, body := render(t, echo.ErrNotFound, false)
	if code != http.StatusNotFound || body.Detail != "Not Found" {
		t.Fatalf("got %d %q", code, body.Detail)
	}
}
