package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const maxResponseBytes = 1 << 20

// InferenceClient implements ports.Scorer against a text-generation server
// exposing POST /generate.
type InferenceClient struct {
	model *Model
}

func NewInferenceClient(model *Model) *InferenceClient {
	return &InferenceClient{model: model}
}

func (c *InferenceClient) ModelName() string { return c.model.Name() }

type generateParams struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	DoSample          bool    `json:"do_sample"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	ReturnFullText    bool    `json:"return_full_text"`
}

type generateRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters generateParams `json:"parameters"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Score grades one transcript.
func (c *InferenceClient) Score(ctx context.Context, transcript string) (*domain.Rubric, error) {
	if err := c.model.Ready(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Inputs: buildPrompt(transcript),
		Parameters: generateParams{
			MaxNewTokens:      c.model.cfg.MaxNewTokens,
			DoSample:          false,
			RepetitionPenalty: 1.05,
			ReturnFullText:    false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.model.cfg.Endpoint+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.model.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: generate returned %d", domain.ErrScorerUnavailable, resp.StatusCode)
	}

	text, err := generatedText(raw)
	if err != nil {
		return nil, err
	}
	return parseRubric(text)
}

// generatedText accepts both the object and the single-element array shapes.
func generatedText(raw []byte) (string, error) {
	var one generateResponse
	if err := json.Unmarshal(raw, &one); err == nil && one.GeneratedText != "" {
		return one.GeneratedText, nil
	}
	var many []generateResponse
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0].GeneratedText, nil
	}
	return "", fmt.Errorf("%w: unrecognised generate response", domain.ErrScoringOutput)
}

var _ ports.Scorer = (*InferenceClient)(nil)
