// Package inference talks to an OpenAI-compatible chat completions endpoint
// (Groq by default) for both the vision and the text model.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-response-service/internal/domain"
	"github.com/couchcryptid/disaster-response-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 8 * time.Second
	maxErrorBody          = 2048
)

// Kind labels a client for metrics and logs.
type Kind string

const (
	KindVision Kind = "vision"
	KindText   Kind = "text"
)

// Config captures what a client needs to reach one model.
type Config struct {
	APIKey     string
	URL        string
	Model      string
	Kind       Kind
	Timeout    time.Duration
	MaxRetries int
}

// Client issues chat completion requests for a single model.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	temperature *float64
	metrics     *observability.Metrics
	logger      *slog.Logger

	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTemperature pins the sampling temperature. Unset, the provider default applies.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = &t
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(base, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = base
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient creates a chat completions client. A zero Timeout leaves
// requests bounded only by the caller's context.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Kind == "" {
		cfg.Kind = KindText
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	c := &Client{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		metrics:        metrics,
		logger:         logger.With("component", "inference", "kind", string(cfg.Kind), "model", cfg.Model),
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a text-only prompt and returns the model's reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, chatMessage{Role: "user", Content: prompt})
}

// CompleteWithImage sends a prompt together with an inline image.
func (c *Client) CompleteWithImage(ctx context.Context, prompt string, img domain.Image) (string, error) {
	return c.complete(ctx, chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: img.DataURL()}},
		},
	})
}

func (c *Client) complete(ctx context.Context, msg chatMessage) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%s completion: api key required: %w", c.cfg.Kind, domain.ErrInference)
	}

	payload := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{msg},
		Temperature: c.temperature,
	}

	start := time.Now()
	content, err := c.withRetry(ctx, payload)
	c.metrics.InferenceDuration.WithLabelValues(string(c.cfg.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.InferenceRequests.WithLabelValues(string(c.cfg.Kind), "error").Inc()
		return "", fmt.Errorf("%s completion: %w: %w", c.cfg.Kind, domain.ErrInference, err)
	}
	c.metrics.InferenceRequests.WithLabelValues(string(c.cfg.Kind), "success").Inc()
	return content, nil
}

func (c *Client) withRetry(ctx context.Context, payload chatRequest) (string, error) {
	attempts := c.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.sendOnce(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		c.logger.Warn("inference request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, payload chatRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	for _, choice := range completion.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", errEmptyCompletion
}

// StatusError is returned for non-2xx responses from the inference API.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

var errEmptyCompletion = errors.New("empty completion")

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}
	if errors.Is(err, errEmptyCompletion) {
		return c.backoffDelay(attempt), true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return min(statusErr.RetryAfter, c.retryMaxDelay), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

// backoffDelay doubles from the base delay per attempt, capped at the max.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := min(c.retryBaseDelay, c.retryMaxDelay)
	for i := 1; i < attempt && delay < c.retryMaxDelay; i++ {
		delay = retry.NextBackoff(delay, c.retryMaxDelay)
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if c.sleeper != nil {
		if delay > 0 {
			c.sleeper(delay)
		}
		return ctx.Err()
	}
	if !retry.SleepWithContext(ctx, delay) {
		return ctx.Err()
	}
	return nil
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}

// Chat completions wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
