package ports

import (
	"context"

	"github.com/callcoach/platform/internal/core/domain"
)

// CallRepository persists call records.
type CallRepository interface {
	Create(ctx context.Context, c *domain.Call) error
	// FindByID returns domain.ErrCallNotFound when no call matches.
	FindByID(ctx context.Context, id string) (*domain.Call, error)
	// ListRecent returns at most limit calls, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Call, error)
	// SetAnalysisStatus moves the call to status. When from is non-empty the
	// update only applies if the current status is one of from; ok is false
	// when no call was changed.
	SetAnalysisStatus(ctx context.Context, id string, status domain.AnalysisStatus, from ...domain.AnalysisStatus) (ok bool, err error)
	Delete(ctx context.Context, id string) error
}

// AnalysisRepository persists rubric results and operator aggregates.
type AnalysisRepository interface {
	Insert(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error)
	// Latest returns domain.ErrAnalysisNotFound when the call was never analysed.
	Latest(ctx context.Context, callID string) (*domain.Analysis, error)
	DeleteByCall(ctx context.Context, callID string) error
	OperatorStats(ctx context.Context, operator string) (*domain.OperatorStats, error)
}

// TranscriptStore keeps one transcript document per call.
type TranscriptStore interface {
	// Save writes the document and returns its location.
	Save(ctx context.Context, t *domain.Transcript) (string, error)
	// Load returns domain.ErrTranscriptNotFound when nothing is stored for callID.
	Load(ctx context.Context, callID string) (*domain.Transcript, error)
	List(ctx context.Context) ([]domain.TranscriptInfo, error)
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, callID string) (bool, error)
}
