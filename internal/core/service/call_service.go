package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const (
	defaultCallListLimit = 50
	maxCallListLimit     = 200
)

type CallService struct {
	calls       ports.CallRepository
	analyses    ports.AnalysisRepository
	transcripts ports.TranscriptStore
	log         zerolog.Logger
	now         func() time.Time
}

func NewCallService(calls ports.CallRepository, analyses ports.AnalysisRepository, transcripts ports.TranscriptStore, log zerolog.Logger) *CallService {
	return &CallService{
		calls:       calls,
		analyses:    analyses,
		transcripts: transcripts,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateCall stores a call. The transcript, when present, is written before the
// call record so a stored call never points at a missing file.
func (s *CallService) CreateCall(ctx context.Context, in ports.CreateCallInput) (*domain.Call, error) {
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		return nil, domain.NewValidationError("customer_name", "customer_name is required")
	}
	if in.StartAt.IsZero() {
		return nil, domain.NewValidationError("start_at", "start_at is required")
	}
	if in.EndAt != nil && in.EndAt.Before(in.StartAt) {
		return nil, domain.NewValidationError("end_at", "end_at must not be before start_at")
	}

	now := s.now()
	call := &domain.Call{
		ID:             uuid.NewString(),
		CustomerName:   customer,
		OperatorName:   strings.TrimSpace(in.OperatorName),
		StartAt:        in.StartAt.UTC(),
		Keywords:       cleanKeywords(in.Keywords),
		AnalysisStatus: domain.AnalysisNotRequested,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.EndAt != nil {
		end := in.EndAt.UTC()
		call.EndAt = &end
		secs := end.Sub(call.StartAt).Seconds()
		call.DurationSeconds = &secs
	}

	if strings.TrimSpace(in.Transcript) != "" {
		file, err := s.transcripts.Save(ctx, transcriptFor(call, in.Transcript, now))
		if err != nil {
			return nil, fmt.Errorf("create call: save transcript: %w", err)
		}
		call.TranscriptFile = file
	}

	if err := s.calls.Create(ctx, call); err != nil {
		s.log.Error().Err(err).Str("call_id", call.ID).Msg("failed to create call")
		if call.HasTranscript() {
			if _, delErr := s.transcripts.Delete(ctx, call.ID); delErr != nil {
				s.log.Warn().Err(delErr).Str("call_id", call.ID).Msg("orphan transcript left behind")
			}
		}
		return nil, fmt.Errorf("create call: %w", err)
	}

	s.log.Info().
		Str("call_id", call.ID).
		Str("operator", call.OperatorName).
		Bool("transcript", call.HasTranscript()).
		Msg("call created")
	return call, nil
}

func (s *CallService) GetCall(ctx context.Context, id string) (*domain.Call, error) {
	call, err := s.calls.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCallNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get call %s: %w", id, err)
	}
	return call, nil
}

// ListCalls returns the newest calls first. limit defaults to 50 and is capped at 200.
func (s *CallService) ListCalls(ctx context.Context, limit int) ([]*domain.Call, error) {
	switch {
	case limit == 0:
		limit = defaultCallListLimit
	case limit < 0:
		return nil, domain.NewValidationError("limit", "limit must be positive")
	case limit > maxCallListLimit:
		limit = maxCallListLimit
	}
	calls, err := s.calls.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return calls, nil
}

// DeleteCall removes the call, its analyses and its transcript file.
func (s *CallService) DeleteCall(ctx context.Context, id string) error {
	call, err := s.GetCall(ctx, id)
	if err != nil {
		return err
	}
	if err := s.analyses.DeleteByCall(ctx, call.ID); err != nil {
		return fmt.Errorf("delete call: analyses: %w", err)
	}
	if err := s.calls.Delete(ctx, call.ID); err != nil {
		return fmt.Errorf("delete call: %w", err)
	}
	if call.HasTranscript() {
		if _, err := s.transcripts.Delete(ctx, call.ID); err != nil {
			s.log.Warn().Err(err).Str("call_id", call.ID).Msg("transcript delete failed")
		}
	}
	s.log.Info().Str("call_id", call.ID).Msg("call deleted")
	return nil
}

// OperatorStats aggregates an operator's calls. Averages are rounded to two
// decimals and stay nil when nothing contributes to them.
func (s *CallService) OperatorStats(ctx context.Context, operator string) (*domain.OperatorStats, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, domain.NewValidationError("operator_name", "operator_name is required")
	}
	stats, err := s.analyses.OperatorStats(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("operator stats: %w", err)
	}
	if stats == nil || stats.TotalCalls == 0 {
		return nil, domain.ErrOperatorNotFound
	}
	for _, p := range []**float64{
		&stats.AvgOverall,
		&stats.AvgDurationSeconds,
		&stats.AvgRegulation,
		&stats.AvgCommercialSkill,
		&stats.AvgProductKnowledge,
		&stats.AvgSaleClosing,
	} {
		*p = round2(*p)
	}
	return stats, nil
}

func transcriptFor(c *domain.Call, text string, savedAt time.Time) *domain.Transcript {
	start := c.StartAt
	meta := domain.TranscriptMetadata{
		CallID:          c.ID,
		CustomerName:    c.CustomerName,
		OperatorName:    c.OperatorName,
		StartAt:         &start,
		EndAt:           c.EndAt,
		DurationSeconds: c.DurationSeconds,
		Keywords:        c.Keywords,
		SavedAt:         savedAt,
		Version:         domain.TranscriptVersion,
	}
	if c.DurationSeconds != nil {
		mins := math.Round(*c.DurationSeconds/60*100) / 100
		meta.DurationMinutes = &mins
	}
	return &domain.Transcript{Metadata: meta, Transcript: domain.NewTranscriptBody(text)}
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

var _ ports.CallService = (*CallService)(nil)
