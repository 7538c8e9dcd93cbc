package client

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is reported when a stream is closed by its owner before completion.
var ErrClosed = errors.New("stream closed")

// NetworkError is returned when the backend cannot be reached or answers
// with a non-2xx status.
type NetworkError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("review service error (status %d): %s", e.StatusCode, e.Message)
	}
	return "network error: " + e.Message
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError is returned when a request/response call exceeds its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("request timed out after %s", e.Timeout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StreamError is returned when the event stream fails before a complete event.
type StreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("stream error (status %d): %s", e.StatusCode, e.Message)
	}
	return "stream error: " + e.Message
}

func (e *StreamError) Unwrap() error { return e.Err }

// IsTimeout checks if an error is a request timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNetworkError checks if an error is a transport or status failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsStreamError checks if an error came from the event stream.
func IsStreamError(err error) bool {
	var se *StreamError
	return errors.As(err, &se)
}
