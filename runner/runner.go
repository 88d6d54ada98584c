// ABOUTME: HTTP client for the remote execution endpoint that compiles and runs submitted programs.
// ABOUTME: Posts the source as a form field, decodes the JSON output, and classifies the result.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2389-research/playpen/playpen"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Errors returned by Execute. Run folds all of them into a TransportFailure.
var (
	// ErrEndpointNotConfigured is returned when no endpoint URL is set.
	ErrEndpointNotConfigured = errors.New("execution endpoint not configured")

	// ErrConnectionFailed is returned when the endpoint cannot be reached.
	ErrConnectionFailed = errors.New("connection to execution endpoint failed")

	// ErrUnexpectedStatus is returned for any non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse is returned when the body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed execution response")
)

// DefaultField is the form field that carries the program source.
const DefaultField = "sourceCode"

// DefaultTimeout bounds a single execution request.
const DefaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// Endpoint is the URL of the execution API. Required.
	Endpoint string
	// Field is the form field name for the source. Default: sourceCode
	Field string
	// Timeout bounds each request. Default: 30s
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
	// Logger receives request outcomes. Optional.
	Logger *zap.Logger
}

// response is the wire body returned by the execution endpoint.
type response struct {
	Output *string `json:"output"`
}

// Client sends programs to the execution endpoint. Requests are never retried.
type Client struct {
	http     *resty.Client
	endpoint string
	field    string
	logger   *zap.Logger
}

// New creates a Client from cfg, filling in defaults.
func New(cfg Config) *Client {
	field := cfg.Field
	if field == "" {
		field = DefaultField
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "playpen/1.0"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		endpoint: cfg.Endpoint,
		field:    field,
		logger:   logger,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute submits source and returns the raw output text.
func (c *Client) Execute(ctx context.Context, source string) (string, error) {
	if c.endpoint == "" {
		return "", ErrEndpointNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{c.field: source}).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Output == nil {
		return "", fmt.Errorf("%w: missing output field", ErrMalformedResponse)
	}
	return *body.Output, nil
}

// Run executes source and classifies the outcome. It never returns an error:
// a failed request is reported as StatusTransportFailure.
func (c *Client) Run(ctx context.Context, source string) playpen.RunResult {
	start := time.Now()
	output, err := c.Execute(ctx, source)
	if err != nil {
		c.logger.Warn("execution request failed",
			zap.String("endpoint", c.endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	}
	result := playpen.ClassifyResponse(output, err)
	c.logger.Debug("execution finished",
		zap.String("status", result.Status.String()),
		zap.Int("output_bytes", len(result.RawText)),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}
