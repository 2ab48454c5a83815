// Package scoring talks to the text-generation service that grades call
// transcripts against the sales rubric.
package scoring

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
)

const (
	defaultModel        = "mistralai/Mistral-7B-Instruct-v0.3"
	defaultMaxNewTokens = 700
	defaultTimeout      = 2 * time.Minute
	probeTimeout        = 10 * time.Second
)

// Config describes the inference backend.
type Config struct {
	Endpoint     string // base URL of the text-generation server
	Model        string
	MaxNewTokens int
	Timeout      time.Duration
}

// Model is a handle on the remote model. It is built once at startup and
// shared by reference. Uses probe the backend until one probe succeeds; only
// that success is kept.
type Model struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger

	mu    sync.Mutex
	ready bool
}

func NewModel(cfg Config, log zerolog.Logger) *Model {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = defaultMaxNewTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Model{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Name returns the configured model identifier.
func (m *Model) Name() string { return m.cfg.Model }

// Ready probes the backend until it answers once. A failed probe is not
// remembered, so the next call tries again.
func (m *Model) Ready(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return nil
	}
	if err := m.probe(ctx); err != nil {
		m.log.Error().Err(err).Str("model", m.cfg.Model).Msg("scoring model unavailable")
		return err
	}
	m.ready = true
	m.log.Info().Str("model", m.cfg.Model).Str("endpoint", m.cfg.Endpoint).Msg("scoring model ready")
	return nil
}

func (m *Model) probe(ctx context.Context) error {
	if m.cfg.Endpoint == "" {
		return fmt.Errorf("%w: no endpoint configured", domain.ErrScorerUnavailable)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.Endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: health returned %d", domain.ErrScorerUnavailable, resp.StatusCode)
	}
	return nil
}
