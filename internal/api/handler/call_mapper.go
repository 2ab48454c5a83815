package handler

import (
	"time"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// --- Request → Service input ---

func toCreateCallInput(req createCallRequest) ports.CreateCallInput {
	in := ports.CreateCallInput{
		CustomerName: req.CustomerName,
		OperatorName: req.OperatorName,
		EndAt:        req.EndAt,
		Keywords:     req.Keywords,
		Transcript:   req.Transcript,
	}
	if req.StartAt != nil {
		in.StartAt = *req.StartAt
	}
	return in
}

// --- Service result → HTTP response ---

func callLinksFor(id string) callLinks {
	return callLinks{
		Self:     "/v1/calls/" + id,
		Analysis: "/v1/calls/" + id + "/analysis",
	}
}

func toCallResponse(c *domain.Call) callResponse {
	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return callResponse{
		ID:              c.ID,
		CustomerName:    c.CustomerName,
		OperatorName:    c.OperatorName,
		StartAt:         c.StartAt.UTC(),
		EndAt:           utcPtr(c.EndAt),
		DurationSeconds: c.DurationSeconds,
		Keywords:        keywords,
		TranscriptFile:  c.TranscriptFile,
		AnalysisStatus:  string(c.AnalysisStatus),
		CreatedAt:       c.CreatedAt.UTC(),
		Links:           callLinksFor(c.ID),
	}
}

func toCallListResponse(calls []*domain.Call) []callResponse {
	out := make([]callResponse, 0, len(calls))
	for _, c := range calls {
		out = append(out, toCallResponse(c))
	}
	return out
}

func toAnalysisResponse(a *domain.Analysis) analysisResponse {
	return analysisResponse{
		ID:        a.ID,
		CallID:    a.CallID,
		Model:     a.Model,
		Result:    a.Rubric,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
