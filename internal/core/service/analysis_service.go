package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// ErrLockHeld is returned by Process when another worker is scoring the call.
var ErrLockHeld = errors.New("analysis lock held by another worker")

// AnalysisService runs call transcripts through the scoring oracle.
type AnalysisService struct {
	calls       ports.CallRepository
	analyses    ports.AnalysisRepository
	transcripts ports.TranscriptStore
	scorer      ports.Scorer
	lock        ports.AnalysisLock
	queue       ports.JobQueue
	log         zerolog.Logger
	now         func() time.Time
}

// NewAnalysisService returns an AnalysisService. The queue may be set later
// with SetQueue since the dispatcher itself depends on the service.
func NewAnalysisService(
	calls ports.CallRepository,
	analyses ports.AnalysisRepository,
	transcripts ports.TranscriptStore,
	scorer ports.Scorer,
	lock ports.AnalysisLock,
	log zerolog.Logger,
) *AnalysisService {
	return &AnalysisService{
		calls:       calls,
		analyses:    analyses,
		transcripts: transcripts,
		scorer:      scorer,
		lock:        lock,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnalysisService) SetQueue(q ports.JobQueue) { s.queue = q }

// RequestAnalysis marks the call QUEUED and hands a job to the queue.
func (s *AnalysisService) RequestAnalysis(ctx context.Context, callID, requestedBy string) (*domain.Call, error) {
	if s.queue == nil {
		return nil, errors.New("request analysis: no job queue configured")
	}
	call, err := s.eligibleCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	ok, err := s.calls.SetAnalysisStatus(ctx, call.ID, domain.AnalysisQueued,
		domain.AnalysisNotRequested, domain.AnalysisDone, domain.AnalysisError)
	if err != nil {
		return nil, fmt.Errorf("request analysis: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent request.
		return nil, domain.ErrAnalysisInProgress
	}
	call.AnalysisStatus = domain.AnalysisQueued

	if err := s.queue.Enqueue(ports.AnalysisJob{CallID: call.ID, RequestedBy: requestedBy, RequestedAt: s.now()}); err != nil {
		// Put the status back so the call can be requested again.
		if _, resetErr := s.calls.SetAnalysisStatus(context.WithoutCancel(ctx), call.ID, domain.AnalysisNotRequested, domain.AnalysisQueued); resetErr != nil {
			s.log.Error().Err(resetErr).Str("call_id", call.ID).Msg("failed to reset queued status")
		}
		return nil, fmt.Errorf("request analysis: %w", err)
	}
	s.log.Info().Str("call_id", call.ID).Str("requested_by", requestedBy).Msg("analysis queued")
	return call, nil
}

// AnalyzeNow scores the call in the caller's goroutine and returns the result.
func (s *AnalysisService) AnalyzeNow(ctx context.Context, callID string) (*domain.Analysis, error) {
	call, err := s.eligibleCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	ok, err := s.calls.SetAnalysisStatus(ctx, call.ID, domain.AnalysisProcessing,
		domain.AnalysisNotRequested, domain.AnalysisDone, domain.AnalysisError)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if !ok {
		return nil, domain.ErrAnalysisInProgress
	}
	return s.run(ctx, call.ID)
}

// Process runs a queued job. Jobs whose call is locked by another worker are
// skipped with ErrLockHeld.
func (s *AnalysisService) Process(ctx context.Context, job ports.AnalysisJob) error {
	token, acquired, err := s.lock.Acquire(ctx, job.CallID)
	if err != nil {
		s.log.Warn().Err(err).Str("call_id", job.CallID).Msg("analysis lock unavailable, processing anyway")
	} else if !acquired {
		return ErrLockHeld
	} else {
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), job.CallID, token); err != nil {
				s.log.Warn().Err(err).Str("call_id", job.CallID).Msg("failed to release analysis lock")
			}
		}()
	}

	ok, err := s.calls.SetAnalysisStatus(ctx, job.CallID, domain.AnalysisProcessing, domain.AnalysisQueued)
	if err != nil {
		return fmt.Errorf("process analysis: %w", err)
	}
	if !ok {
		return fmt.Errorf("process analysis %s: %w", job.CallID, domain.ErrAnalysisInProgress)
	}

	_, err = s.run(ctx, job.CallID)
	return err
}

func (s *AnalysisService) LatestAnalysis(ctx context.Context, callID string) (*domain.Analysis, error) {
	if _, err := s.calls.FindByID(ctx, callID); err != nil {
		if errors.Is(err, domain.ErrCallNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("latest analysis: %w", err)
	}
	a, err := s.analyses.Latest(ctx, callID)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("latest analysis: %w", err)
	}
	return a, nil
}

func (s *AnalysisService) eligibleCall(ctx context.Context, callID string) (*domain.Call, error) {
	call, err := s.calls.FindByID(ctx, callID)
	if err != nil {
		if errors.Is(err, domain.ErrCallNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup call: %w", err)
	}
	if !call.HasTranscript() {
		return nil, domain.ErrTranscriptMissing
	}
	if call.AnalysisStatus.InFlight() {
		return nil, domain.ErrAnalysisInProgress
	}
	return call, nil
}

// run scores a call already in PROCESSING and leaves it in DONE or ERROR.
func (s *AnalysisService) run(ctx context.Context, callID string) (*domain.Analysis, error) {
	log := s.log.With().Str("call_id", callID).Logger()

	a, err := s.score(ctx, callID)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		if _, setErr := s.calls.SetAnalysisStatus(context.WithoutCancel(ctx), callID, domain.AnalysisError); setErr != nil {
			log.Error().Err(setErr).Msg("failed to mark analysis error")
		}
		return nil, err
	}

	if _, err := s.calls.SetAnalysisStatus(ctx, callID, domain.AnalysisDone); err != nil {
		return nil, fmt.Errorf("analysis %s: mark done: %w", callID, err)
	}
	log.Info().Int("overall", a.Rubric.Overall).Str("model", a.Model).Msg("analysis stored")
	return a, nil
}

func (s *AnalysisService) score(ctx context.Context, callID string) (*domain.Analysis, error) {
	t, err := s.transcripts.Load(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: load transcript: %w", callID, err)
	}
	if !t.Transcript.HasContent {
		return nil, fmt.Errorf("analysis %s: %w", callID, domain.ErrTranscriptMissing)
	}

	rubric, err := s.scorer.Score(ctx, t.Transcript.Text)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: score: %w", callID, err)
	}
	rubric.Clamp()

	stored, err := s.analyses.Insert(ctx, &domain.Analysis{
		CallID:    callID,
		Rubric:    *rubric,
		Model:     s.scorer.ModelName(),
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("analysis %s: store: %w", callID, err)
	}
	return stored, nil
}

var _ ports.AnalysisService = (*AnalysisService)(nil)
