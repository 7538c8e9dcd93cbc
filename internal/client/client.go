package client

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
	"strings"
	"time"

	"github.com/dshills/codementor/internal/review"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds request/response calls. Streams are unbounded.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 64 << 10
)

// Client provides access to the code review service.
type Client struct {
	baseURL   string
	timeout   time.Duration
	httpCli   *http.Client
	streamCli *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request/response timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient uses hc as the transport for both plain and streaming calls.
// Its Timeout applies to plain calls only.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpCli = hc
		c.streamCli = &http.Client{Transport: hc.Transport}
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the service at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpCli == nil {
		c.httpCli = &http.Client{Timeout: c.timeout}
		c.streamCli = &http.Client{}
	} else if c.httpCli.Timeout == 0 {
		hc := *c.httpCli
		hc.Timeout = c.timeout
		c.httpCli = &hc
	}
	return c
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// SubmitReview sends code for review and waits for the complete result.
func (c *Client) SubmitReview(ctx context.Context, req review.ReviewRequest) (review.ReviewResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return review.ReviewResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	var result review.ReviewResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/review", bytes.NewReader(payload), &result); err != nil {
		return review.ReviewResult{}, err
	}
	return result, nil
}

// doJSON performs a request against the service and decodes a JSON response
// into out. Transport failures and non-2xx statuses become NetworkError;
// deadline overruns become TimeoutError.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpCli.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Timeout: c.effectiveTimeout(), Err: err}
		}
		return &NetworkError{Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Timeout: c.effectiveTimeout(), Err: err}
		}
		return &NetworkError{Message: fmt.Sprintf("reading response: %v", err), Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &NetworkError{StatusCode: httpResp.StatusCode, Message: errorDetail(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) effectiveTimeout() time.Duration {
	if c.httpCli != nil && c.httpCli.Timeout > 0 {
		return c.httpCli.Timeout
	}
	return c.timeout
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// errorDetail extracts a readable message from an error response body.
// The service reports errors as {"detail": "..."}.
func errorDetail(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var detail struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		switch d := detail.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
		if detail.Message != "" {
			return detail.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	return msg
}
