package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

type stubPinger struct {
	name string
	err  error
}

func (p stubPinger) Name() string                   { return p.name }
func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "", nil)
	if err := NewHealthHandler("users-api").Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp livenessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != "ok" || resp.Service != "users-api" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestHealthDependencies_Readiness(t *testing.T) {
	h := NewHealthDependenciesHandler(stubPinger{name: "mongo"}, stubPinger{name: "redis"})
	c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = NewHealthDependenciesHandler(stubPinger{name: "mongo"}, stubPinger{name: "redis", err: errors.New("dial tcp: refused")})
	c, rec = newContext(http.MethodGet, "/health/ready", "", nil)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["mongo"].Status != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
