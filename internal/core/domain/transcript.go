package domain

import (
	"strings"
	"time"
)

// TranscriptVersion is written into every stored transcript document.
const TranscriptVersion = "1.0"

// TranscriptMetadata describes the call a transcript belongs to.
type TranscriptMetadata struct {
	CallID          string     `json:"call_id"`
	CustomerName    string     `json:"customer_name"`
	OperatorName    string     `json:"operator_name,omitempty"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
	Keywords        []string   `json:"keywords"`
	SavedAt         time.Time  `json:"saved_at"`
	Version         string     `json:"version"`
}

// TranscriptBody holds the text and a few derived counters.
type TranscriptBody struct {
	Text       string `json:"text"`
	Characters int    `json:"characters"`
	Words      int    `json:"words"`
	HasContent bool   `json:"has_content"`
}

// Transcript is the persisted transcript document of a call.
type Transcript struct {
	Metadata   TranscriptMetadata `json:"metadata"`
	Transcript TranscriptBody     `json:"transcript"`
}

// NewTranscriptBody computes the counters for text.
func NewTranscriptBody(text string) TranscriptBody {
	return TranscriptBody{
		Text:       text,
		Characters: len([]rune(text)),
		Words:      len(strings.Fields(text)),
		HasContent: strings.TrimSpace(text) != "",
	}
}

// TranscriptInfo is a directory listing entry.
type TranscriptInfo struct {
	CallID     string    `json:"call_id"`
	File       string    `json:"file"`
	ModifiedAt time.Time `json:"modified_at"`
}
