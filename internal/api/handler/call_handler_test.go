package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

var callStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func sampleCall() *domain.Call {
	end := callStart.Add(5 * time.Minute)
	secs := 300.0
	return &domain.Call{
		ID:              "c-1",
		CustomerName:    "Carlos",
		OperatorName:    "Maria",
		StartAt:         callStart,
		EndAt:           &end,
		DurationSeconds: &secs,
		Keywords:        []string{"seguro"},
		TranscriptFile:  "call_c-1.json",
		AnalysisStatus:  domain.AnalysisNotRequested,
		CreatedAt:       callStart,
	}
}

func TestCallHandler_Create(t *testing.T) {
	stub := &stubCallService{
		createFn: func(ctx context.Context, in ports.CreateCallInput) (*domain.Call, error) {
			if in.CustomerName != "Carlos" || !in.StartAt.Equal(callStart) || in.EndAt == nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Transcript != "Operador: hola" || len(in.Keywords) != 1 {
				t.Fatalf("unexpected transcript/keywords: %+v", in)
			}
			return sampleCall(), nil
		},
	}

	c, rec := newContext(http.MethodPost, "/v1/calls", `{
		"customer_name": "Carlos",
		"operator_name": "Maria",
		"start_at": "2025-03-10T09:00:00Z",
		"end_at": "2025-03-10T09:05:00Z",
		"keywords": ["seguro"],
		"transcript": "Operador: hola"
	}`, &domain.Claims{Subject: "1", Role: "LEARNER"})

	if err := NewCallHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/calls/c-1" {
		t.Fatalf("unexpected Location %q", loc)
	}

	var resp callResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "c-1" || resp.AnalysisStatus != "NOT_REQUESTED" || resp.Links.Analysis != "/v1/calls/c-1/analysis" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.DurationSeconds == nil || *resp.DurationSeconds != 300 {
		t.Fatalf("duration: %v", resp.DurationSeconds)
	}
}

func TestCallHandler_Create_Invalid(t *testing.T) {
	stub := &stubCallService{
		createFn: func(ctx context.Context, in ports.CreateCallInput) (*domain.Call, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	for name, body := range map[string]string{
		"no customer": `{"start_at":"2025-03-10T09:00:00Z"}`,
		"no start":    `{"customer_name":"Carlos"}`,
		"bad date":    `{"customer_name":"Carlos","start_at":"yesterday"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/v1/calls", body, nil)
			if err := NewCallHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCallHandler_List(t *testing.T) {
	stub := &stubCallService{calls: []*domain.Call{sampleCall()}}

	c, rec := newContext(http.MethodGet, "/v1/calls?limit=10", "", nil)
	if err := NewCallHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.limit != 10 {
		t.Fatalf("expected limit 10, got %d", stub.limit)
	}
	var resp []callResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp) != 1 {
		t.Fatalf("unexpected payload: %s (%v)", rec.Body.String(), err)
	}

	c, _ = newContext(http.MethodGet, "/v1/calls", "", nil)
	if err := NewCallHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.limit != 0 {
		t.Fatalf("absent limit should pass 0, got %d", stub.limit)
	}
}

func TestCallHandler_GetAndDelete(t *testing.T) {
	stub := &stubCallService{err: domain.ErrCallNotFound}
	h := NewCallHandler(stub)

	c, _ := newContext(http.MethodGet, "/v1/calls/nope", "", nil)
	if err := h.Get(c); !errors.Is(err, domain.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound, got %v", err)
	}

	stub.err = nil
	c, rec := newContext(http.MethodDelete, "/v1/calls/c-1", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("c-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.deleted != "c-1" {
		t.Fatalf("expected 204 for c-1, got %d (%s)", rec.Code, stub.deleted)
	}
}

func TestCallHandler_OperatorStats(t *testing.T) {
	avg := 7.5
	stub := &stubCallService{stats: &domain.OperatorStats{OperatorName: "Maria", TotalCalls: 2, AnalyzedCalls: 1, AvgOverall: &avg}}

	c, rec := newContext(http.MethodGet, "/v1/operators/Maria/stats", "", nil)
	c.SetParamNames("name")
	c.SetParamValues("Maria")
	if err := NewCallHandler(stub).OperatorStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total_calls"] != float64(2) || resp["avg_overall"] != 7.5 || resp["avg_regulation"] != nil {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	stub.err = domain.ErrOperatorNotFound
	c, _ = newContext(http.MethodGet, "/v1/operators/Nadie/stats", "", nil)
	if err := NewCallHandler(stub).OperatorStats(c); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
}
