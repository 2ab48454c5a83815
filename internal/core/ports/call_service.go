package ports

import (
	"context"
	"time"

	"github.com/callcoach/platform/internal/core/domain"
)

// CreateCallInput is the DTO passed from the transport layer to CallService.
type CreateCallInput struct {
	CustomerName string
	OperatorName string
	StartAt      time.Time
	EndAt        *time.Time // optional
	Keywords     []string
	Transcript   string // optional
}

// CallService manages the call log.
type CallService interface {
	CreateCall(ctx context.Context, in CreateCallInput) (*domain.Call, error)
	GetCall(ctx context.Context, id string) (*domain.Call, error)
	ListCalls(ctx context.Context, limit int) ([]*domain.Call, error)
	DeleteCall(ctx context.Context, id string) error
	OperatorStats(ctx context.Context, operator string) (*domain.OperatorStats, error)
}

// AnalysisJob is the unit of work handed to the dispatcher.
type AnalysisJob struct {
	CallID      string
	RequestedBy string
	RequestedAt time.Time
}

// AnalysisService runs transcripts through the scoring oracle.
type AnalysisService interface {
	// RequestAnalysis validates the call and enqueues a job.
	RequestAnalysis(ctx context.Context, callID, requestedBy string) (*domain.Call, error)
	// AnalyzeNow scores the call in the caller's goroutine.
	AnalyzeNow(ctx context.Context, callID string) (*domain.Analysis, error)
	// Process runs a queued job.
	Process(ctx context.Context, job AnalysisJob) error
	LatestAnalysis(ctx context.Context, callID string) (*domain.Analysis, error)
}

// Scorer is the opaque rubric oracle.
type Scorer interface {
	Score(ctx context.Context, transcript string) (*domain.Rubric, error)
	ModelName() string
}

// AnalysisLock guards a call against concurrent scoring.
type AnalysisLock interface {
	// Acquire reports false when another worker already holds the lock. The
	// returned token identifies this holder and must be passed to Release.
	Acquire(ctx context.Context, callID string) (token string, ok bool, err error)
	// Release drops the lock only while token still owns it.
	Release(ctx context.Context, callID, token string) error
}

// JobQueue accepts analysis jobs. Enqueue fails with domain.ErrQueueClosed
// once the queue has stopped taking work.
type JobQueue interface {
	Enqueue(job AnalysisJob) error
}
