package handler

import (
	"time"

	"github.com/callcoach/platform/internal/core/domain"
)

// --- Request types ---

type createCallRequest struct {
	CustomerName string     `json:"customer_name" validate:"required"`
	OperatorName string     `json:"operator_name"`
	StartAt      *time.Time `json:"start_at"      validate:"required"`
	EndAt        *time.Time `json:"end_at"`
	Keywords     []string   `json:"keywords"      validate:"max=50"`
	Transcript   string     `json:"transcript"`
}

// --- Response types ---

type callLinks struct {
	Self     string `json:"self"`
	Analysis string `json:"analysis"`
}

type callResponse struct {
	ID              string     `json:"id"`
	CustomerName    string     `json:"customer_name"`
	OperatorName    string     `json:"operator_name,omitempty"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	Keywords        []string   `json:"keywords"`
	TranscriptFile  string     `json:"transcript_file,omitempty"`
	AnalysisStatus  string     `json:"analysis_status"`
	CreatedAt       time.Time  `json:"created_at"`
	Links           callLinks  `json:"_links"`
}

type analysisAcceptedResponse struct {
	Message        string    `json:"message"`
	CallID         string    `json:"call_id"`
	AnalysisStatus string    `json:"analysis_status"`
	Links          callLinks `json:"_links"`
}

type analysisResponse struct {
	ID        string        `json:"id"`
	CallID    string        `json:"call_id"`
	Model     string        `json:"model"`
	Result    domain.Rubric `json:"result"`
	CreatedAt time.Time     `json:"created_at"`
}

type analysisCompletedResponse struct {
	Message    string        `json:"message"`
	AnalysisID string        `json:"analysis_id"`
	CallID     string        `json:"call_id"`
	Result     domain.Rubric `json:"result"`
}
