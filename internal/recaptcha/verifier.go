// Package recaptcha verifies reCAPTCHA v3 tokens against Google's
// siteverify endpoint.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evrodrive/leadgate/pkg/logging"
)

const defaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// ErrVerificationFailed is returned when Google reports the token as
// unsuccessful or its score falls below the configured threshold. The text is
// surfaced to the submitting client.
var ErrVerificationFailed = errors.New("Failed reCAPTCHA")

// Verifier checks a client-supplied token. Implementations must treat each
// token as single-use; nothing here caches or replays them.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Config holds verifier configuration.
type Config struct {
	// Enabled toggles verification. When false, Verify succeeds without
	// any network call.
	Enabled bool
	// Secret is the server-side siteverify secret. Required when enabled.
	Secret string
	// Threshold is the minimum acceptable score. Responses without a score
	// are accepted on success alone.
	Threshold float64
}

// Client verifies tokens against the siteverify endpoint.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithEndpoint overrides the siteverify URL. Used in tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a verifier client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type siteverifyResponse struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score"`
}

// Verify checks the token. A nil return means the submission may proceed.
func (c *Client) Verify(ctx context.Context, token string) error {
	if !c.cfg.Enabled {
		return nil
	}
	if c.cfg.Secret == "" {
		return errors.New("Missing reCAPTCHA secret")
	}

	form := url.Values{}
	form.Set("secret", c.cfg.Secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("recaptcha: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recaptcha: siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("recaptcha: decode siteverify response: %w", err)
	}

	if !result.Success {
		c.logger.Warn("recaptcha verification rejected", "success", false)
		return ErrVerificationFailed
	}
	if result.Score != nil && *result.Score < c.cfg.Threshold {
		c.logger.Warn("recaptcha score below threshold", "score", *result.Score, "threshold", c.cfg.Threshold)
		return ErrVerificationFailed
	}
	return nil
}

var _ Verifier = (*Client)(nil)
