package domain

import "time"

// AnalysisStatus tracks where a call is in the scoring pipeline.
type AnalysisStatus string

const (
	AnalysisNotRequested AnalysisStatus = "NOT_REQUESTED"
	AnalysisQueued       AnalysisStatus = "QUEUED"
	AnalysisProcessing   AnalysisStatus = "PROCESSING"
	AnalysisDone         AnalysisStatus = "DONE"
	AnalysisError        AnalysisStatus = "ERROR"
)

// InFlight reports whether an analysis has been requested and has not finished.
func (s AnalysisStatus) InFlight() bool {
	return s == AnalysisQueued || s == AnalysisProcessing
}

// Call is a logged customer call.
type Call struct {
	ID              string         `json:"id" bson:"_id"`
	CustomerName    string         `json:"customer_name" bson:"customer_name"`
	OperatorName    string         `json:"operator_name,omitempty" bson:"operator_name,omitempty"`
	StartAt         time.Time      `json:"start_at" bson:"start_at"`
	EndAt           *time.Time     `json:"end_at,omitempty" bson:"end_at,omitempty"`
	DurationSeconds *float64       `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
	Keywords        []string       `json:"keywords" bson:"keywords"`
	TranscriptFile  string         `json:"transcript_file,omitempty" bson:"transcript_file,omitempty"`
	AnalysisStatus  AnalysisStatus `json:"analysis_status" bson:"analysis_status"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

// Duration returns the call length, or nil while the call has no end time.
func (c *Call) Duration() *time.Duration {
	if c.EndAt == nil {
		return nil
	}
	d := c.EndAt.Sub(c.StartAt)
	return &d
}

// HasTranscript reports whether a transcript file was stored for the call.
func (c *Call) HasTranscript() bool {
	return c.TranscriptFile != ""
}
