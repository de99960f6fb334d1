package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoff     = time.Second
)

// DefaultModels is the preference-ordered model chain. Each model gets the
// full retry budget before the next one is tried.
var DefaultModels = []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-1.5-flash-8b"}

// ErrAllModelsFailed reports that every model in the chain exhausted its
// retries. Callers treat it as the signal to use local fallback text.
var ErrAllModelsFailed = errors.New("all models failed")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries construction options for the Gemini client.
type Config struct {
	APIKey       string
	BaseURL      string
	Models       []string
	MaxRetries   int
	RetryBackoff time.Duration
	HTTPTimeout  time.Duration
	HTTPClient   httpDoer
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Client calls the Gemini generateContent REST endpoint with a model
// fallback chain.
type Client struct {
	apiKey       string
	baseURL      string
	models       []string
	maxRetries   int
	retryBackoff time.Duration
	httpClient   httpDoer
	logger       *slog.Logger
	metrics      *metrics.Recorder
}

// NewClient constructs a Client, filling unset options with defaults.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultBackoff
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		models:       models,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		httpClient:   httpClient,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generateText runs the prompt through the model chain. Each model is retried
// with a constant backoff before the chain advances; the first non-empty
// response wins. When every model fails the error wraps ErrAllModelsFailed.
func (c *Client) generateText(ctx context.Context, prompt string, genCfg *generationConfig) (string, error) {
	var lastErr error
	for _, model := range c.models {
		text, err := c.generateWithRetries(ctx, model, prompt, genCfg)
		if err == nil {
			logging.Info(c.logger, "generated text", logging.FieldModel, model)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		logging.Warn(c.logger, "model exhausted retries", logging.FieldModel, model, "error", err)
	}
	return "", fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
}

func (c *Client) generateWithRetries(ctx context.Context, model, prompt string, genCfg *generationConfig) (string, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryBackoff), uint64(c.maxRetries-1)),
		ctx,
	)

	var text string
	op := func() error {
		var err error
		text, err = c.generateContent(ctx, model, prompt, genCfg)
		return err
	}
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) generateContent(ctx context.Context, model, prompt string, genCfg *generationConfig) (string, error) {
	start := time.Now()
	text, err := c.doGenerate(ctx, model, prompt, genCfg)
	c.metrics.RecordModelCall(model, time.Since(start), err)
	return text, err
}

func (c *Client) doGenerate(ctx context.Context, model, prompt string, genCfg *generationConfig) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("call %s: status %d: %s", model, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode %s response: %w", model, err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("call %s: empty response", model)
	}
	text := decoded.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("call %s: empty text", model)
	}
	return text, nil
}
