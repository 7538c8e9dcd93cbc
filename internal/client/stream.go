package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/codementor/internal/review"
	"github.com/google/uuid"
)

// Stream is an open server-sent event channel for one review. Events are
// delivered in arrival order. The stream closes itself after delivering a
// complete event; any other end is reported through Err.
type Stream struct {
	ctx    context.Context
	body   io.ReadCloser
	r      *bufio.Reader
	cancel context.CancelFunc
	logger *slog.Logger

	evt      review.StreamEvent
	err      error
	finished bool

	closed    atomic.Bool
	closeOnce sync.Once
}

// OpenStream opens the event stream for req. The stream is bound to ctx:
// cancelling ctx closes the channel. No timeout is applied.
func (c *Client) OpenStream(ctx context.Context, req review.ReviewRequest) (*Stream, error) {
	q := url.Values{}
	q.Set("code", req.Code)
	q.Set("language", string(req.Language))
	endpoint := c.baseURL + "/api/review/stream?" + q.Encode()

	ctx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	cli := c.streamCli
	if cli == nil {
		cli = http.DefaultClient
	}
	httpResp, err := cli.Do(httpReq)
	if err != nil {
		cancel()
		return nil, &StreamError{Message: err.Error(), Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		httpResp.Body.Close()
		cancel()
		return nil, &StreamError{StatusCode: httpResp.StatusCode, Message: errorDetail(body)}
	}

	return &Stream{
		ctx:    ctx,
		body:   httpResp.Body,
		r:      bufio.NewReader(httpResp.Body),
		cancel: cancel,
		logger: c.log(),
	}, nil
}

// SubmitReviewStream opens a stream for req and calls onEvent once per event
// in arrival order. It returns nil exactly when a complete event arrives.
func (c *Client) SubmitReviewStream(ctx context.Context, req review.ReviewRequest, onEvent func(review.StreamEvent)) error {
	s, err := c.OpenStream(ctx, req)
	if err != nil {
		return err
	}
	for evt, err := range s.All() {
		if err != nil {
			return err
		}
		onEvent(evt)
	}
	return nil
}

// Next advances to the next event. It returns false when the stream has
// completed, failed, or been closed.
func (s *Stream) Next() bool {
	if s.finished {
		return false
	}
	for {
		name, data, err := s.readFrame()
		if err != nil {
			s.fail(err)
			return false
		}
		if data == "" {
			continue
		}

		var evt review.StreamEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			s.logger.Warn("discarding malformed stream event", "error", err, "data", truncate(data, 200))
			continue
		}
		if evt.Type == "" {
			evt.Type = review.EventType(name)
		}
		if evt.Type == "" {
			s.logger.Warn("discarding untagged stream event", "data", truncate(data, 200))
			continue
		}

		s.evt = evt
		if evt.Type == review.EventComplete {
			s.finished = true
			s.Close()
		}
		return true
	}
}

// Event returns the event read by the last successful call to Next.
func (s *Stream) Event() review.StreamEvent { return s.evt }

// Err returns the error that ended the stream, or nil if it completed.
func (s *Stream) Err() error { return s.err }

// Close closes the underlying channel. It is safe to call more than once and
// from another goroutine while Next is blocked.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.body.Close()
	})
}

// All returns an iterator over the stream's events. The stream is closed when
// iteration ends. A failure before the complete event is yielded once as the
// final error.
func (s *Stream) All() iter.Seq2[review.StreamEvent, error] {
	return func(yield func(review.StreamEvent, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Event(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(review.StreamEvent{}, err)
		}
	}
}

func (s *Stream) fail(err error) {
	s.finished = true
	switch {
	case s.closed.Load():
		s.err = &StreamError{Message: "closed before completion", Err: ErrClosed}
	case s.ctx.Err() != nil:
		s.err = &StreamError{Message: s.ctx.Err().Error(), Err: s.ctx.Err()}
	case errors.Is(err, io.EOF):
		s.err = &StreamError{Message: "connection closed before review completed", Err: err}
	default:
		s.err = &StreamError{Message: err.Error(), Err: err}
	}
	s.Close()
}

// readFrame reads one SSE frame, returning its event name and joined data
// lines. Comment lines and unknown fields are skipped.
func (s *Stream) readFrame() (name, data string, err error) {
	var dataLines []string
	seen := false
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			// An unterminated frame at EOF is discarded.
			return "", "", err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if !seen {
				continue
			}
			return name, strings.Join(dataLines, "\n"), nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		seen = true

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			dataLines = append(dataLines, value)
		case "event":
			name = value
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
