package service

import (
	"context"
	"sort"
	"sync"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory call log
// ---------------------------------------------------------------------------

type stubCallRepo struct {
	mu        sync.Mutex
	calls     map[string]*domain.Call
	createErr error
}

func newStubCallRepo() *stubCallRepo {
	return &stubCallRepo{calls: make(map[string]*domain.Call)}
}

func (r *stubCallRepo) Create(_ context.Context, c *domain.Call) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.calls[c.ID] = &clone
	return nil
}

func (r *stubCallRepo) FindByID(_ context.Context, id string) (*domain.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return nil, domain.ErrCallNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCallRepo) ListRecent(_ context.Context, limit int) ([]*domain.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Call, 0, len(r.calls))
	for _, c := range r.calls {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubCallRepo) SetAnalysisStatus(_ context.Context, id string, status domain.AnalysisStatus, from ...domain.AnalysisStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return false, nil
	}
	if len(from) > 0 {
		match := false
		for _, f := range from {
			if c.AnalysisStatus == f {
				match = true
				break
			}
		}
		if !match {
			return false, nil
		}
	}
	c.AnalysisStatus = status
	return true, nil
}

func (r *stubCallRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[id]; !ok {
		return domain.ErrCallNotFound
	}
	delete(r.calls, id)
	return nil
}

func (r *stubCallRepo) status(id string) domain.AnalysisStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id].AnalysisStatus
}

// ---------------------------------------------------------------------------
// Analyses
// ---------------------------------------------------------------------------

type stubAnalysisRepo struct {
	byCall map[string][]*domain.Analysis
	stats  *domain.OperatorStats
}

func newStubAnalysisRepo() *stubAnalysisRepo {
	return &stubAnalysisRepo{byCall: make(map[string][]*domain.Analysis)}
}

func (r *stubAnalysisRepo) Insert(_ context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	clone := *a
	clone.ID = a.CallID + "-a"
	r.byCall[a.CallID] = append(r.byCall[a.CallID], &clone)
	return &clone, nil
}

func (r *stubAnalysisRepo) Latest(_ context.Context, callID string) (*domain.Analysis, error) {
	list := r.byCall[callID]
	if len(list) == 0 {
		return nil, domain.ErrAnalysisNotFound
	}
	return list[len(list)-1], nil
}

func (r *stubAnalysisRepo) DeleteByCall(_ context.Context, callID string) error {
	delete(r.byCall, callID)
	return nil
}

func (r *stubAnalysisRepo) OperatorStats(_ context.Context, operator string) (*domain.OperatorStats, error) {
	if r.stats == nil {
		return &domain.OperatorStats{OperatorName: operator}, nil
	}
	clone := *r.stats
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Transcripts, scorer, lock and queue
// ---------------------------------------------------------------------------

type stubTranscriptStore struct {
	docs    map[string]*domain.Transcript
	saveErr error
}

func newStubTranscriptStore() *stubTranscriptStore {
	return &stubTranscriptStore{docs: make(map[string]*domain.Transcript)}
}

func (s *stubTranscriptStore) Save(_ context.Context, t *domain.Transcript) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.docs[t.Metadata.CallID] = t
	return "call_" + t.Metadata.CallID + ".json", nil
}

func (s *stubTranscriptStore) Load(_ context.Context, callID string) (*domain.Transcript, error) {
	t, ok := s.docs[callID]
	if !ok {
		return nil, domain.ErrTranscriptNotFound
	}
	return t, nil
}

func (s *stubTranscriptStore) List(context.Context) ([]domain.TranscriptInfo, error) {
	var out []domain.TranscriptInfo
	for id := range s.docs {
		out = append(out, domain.TranscriptInfo{CallID: id})
	}
	return out, nil
}

func (s *stubTranscriptStore) Delete(_ context.Context, callID string) (bool, error) {
	_, ok := s.docs[callID]
	delete(s.docs, callID)
	return ok, nil
}

type stubScorer struct {
	rubric *domain.Rubric
	err    error
	calls  int
}

func (s *stubScorer) Score(context.Context, string) (*domain.Rubric, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	clone := *s.rubric
	return &clone, nil
}

func (s *stubScorer) ModelName() string { return "stub-model" }

type stubLock struct {
	held     map[string]string // call id -> token
	released []string
}

func newStubLock() *stubLock { return &stubLock{held: make(map[string]string)} }

func (l *stubLock) Acquire(_ context.Context, callID string) (string, bool, error) {
	if _, ok := l.held[callID]; ok {
		return "", false, nil
	}
	token := "tok-" + callID
	l.held[callID] = token
	return token, true, nil
}

func (l *stubLock) Release(_ context.Context, callID, token string) error {
	if l.held[callID] == token {
		delete(l.held, callID)
	}
	l.released = append(l.released, callID)
	return nil
}

type stubQueue struct {
	jobs []ports.AnalysisJob
	err  error
}

func (q *stubQueue) Enqueue(job ports.AnalysisJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}
