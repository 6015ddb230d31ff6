package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"readiness-backend/internal/responses"
)

const (
	DefaultModel          = "omni-moderation-latest"
	DefaultMaxRetries     = 3
	DefaultRequestTimeout = 30 * time.Second
)

// Config configures the moderation adapter.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	MaxRetries     int
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

func (c Config) withDefaults() Config {
	out := c
	if strings.TrimSpace(out.Model) == "" {
		out.Model = DefaultModel
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = DefaultMaxRetries
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = DefaultRequestTimeout
	}
	if out.HTTPClient == nil {
		out.HTTPClient = &http.Client{Timeout: out.RequestTimeout}
	}
	return out
}

// Moderator scores text with the OpenAI moderation endpoint.
type Moderator struct {
	client openaigo.Client
	model  string
}

// NewModerator constructs a moderator.
func NewModerator(cfg Config) (*Moderator, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.RequestTimeout),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	return &Moderator{
		client: openaigo.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Moderate returns the category scores of the first result, keeping the
// order the API reports them in.
func (m *Moderator) Moderate(ctx context.Context, text string) (responses.ScoreMap, error) {
	resp, err := m.client.Moderations.New(ctx, openaigo.ModerationNewParams{
		Input: openaigo.ModerationNewParamsInputUnion{OfString: openaigo.String(text)},
		Model: openaigo.ModerationModel(m.model),
	})
	if err != nil {
		return responses.ScoreMap{}, fmt.Errorf("openai moderation: %w", err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return responses.ScoreMap{}, errors.New("openai moderation: empty result")
	}
	return scoresFromJSON(resp.Results[0].CategoryScores.RawJSON())
}

func scoresFromJSON(raw string) (responses.ScoreMap, error) {
	var scores responses.ScoreMap
	if strings.TrimSpace(raw) == "" {
		return responses.NewScoreMap(), nil
	}
	if err := scores.UnmarshalJSON([]byte(raw)); err != nil {
		return responses.ScoreMap{}, fmt.Errorf("openai moderation: decode category scores: %w", err)
	}
	return scores, nil
}
