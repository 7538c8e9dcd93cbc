package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/codementor/internal/client"
	"github.com/dshills/codementor/internal/redact"
	"github.com/dshills/codementor/internal/review"
	"github.com/dshills/codementor/internal/store"
)

// Backend is the part of the review service a session needs.
type Backend interface {
	SubmitReview(ctx context.Context, req review.ReviewRequest) (review.ReviewResult, error)
	OpenStream(ctx context.Context, req review.ReviewRequest) (*client.Stream, error)
	History(ctx context.Context, limit int) ([]review.HistoryEntry, error)
}

// Session submits reviews and records their progress in a Store.
type Session struct {
	backend Backend
	store   *store.Store
	logger  *slog.Logger
	now     func() time.Time

	redactSecrets bool
	redactPaths   []string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithRedaction enables secret redaction of submitted code. Files whose name
// matches one of paths are refused.
func WithRedaction(enabled bool, paths []string) Option {
	return func(s *Session) {
		s.redactSecrets = enabled
		s.redactPaths = paths
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session over backend, recording into st.
func New(backend Backend, st *store.Store, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		store:   st,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state snapshot.
func (s *Session) State() store.State { return s.store.Snapshot() }

// Store returns the underlying store, for subscriptions.
func (s *Session) Store() *store.Store { return s.store }

// SetCode replaces the draft code.
func (s *Session) SetCode(code string) { s.store.Dispatch(store.SetCode{Code: code}) }

// SetLanguage replaces the draft language.
func (s *Session) SetLanguage(lang review.Language) {
	s.store.Dispatch(store.SetLanguage{Language: lang})
}

// SetFileName names the draft.
func (s *Session) SetFileName(name string) { s.store.Dispatch(store.SetFileName{FileName: name}) }

// Reset clears the draft and the last result. History is kept.
func (s *Session) Reset() { s.store.Dispatch(store.Reset{}) }

// DeleteHistory removes the history entry with id.
func (s *Session) DeleteHistory(id string) {
	s.store.Dispatch(store.DeleteHistory{ID: id})
}

// SyncHistory replaces the session history with the service's record.
func (s *Session) SyncHistory(ctx context.Context, limit int) error {
	entries, err := s.backend.History(ctx, limit)
	if err != nil {
		return err
	}
	s.store.Dispatch(store.SetHistory{Entries: entries})
	return nil
}

// Submit reviews code with a single request/response call. Empty code or
// language fall back to the draft. A validation failure is recorded and
// returned without contacting the service.
func (s *Session) Submit(ctx context.Context, code string, lang review.Language) error {
	req, err := s.prepare(code, lang)
	if err != nil {
		s.stopStream()
		return s.reject(err)
	}
	s.stopStream()

	s.store.Dispatch(store.SubmitStarted{Submission: submission(req)})
	result, err := s.backend.SubmitReview(ctx, req)
	if err != nil {
		s.logger.Debug("review request failed", "error", err)
		s.store.Dispatch(store.RequestFailed{Message: err.Error()})
		return err
	}
	s.store.Dispatch(store.RequestSucceeded{Result: result, At: s.now()})
	return nil
}

// SubmitStream reviews code over the event stream, recording each event as it
// arrives. Any stream already in flight is cancelled first. It returns nil once
// the stream completes, the context error if the stream was cancelled, and the
// stream error otherwise.
func (s *Session) SubmitStream(ctx context.Context, code string, lang review.Language) error {
	req, err := s.prepare(code, lang)
	if err != nil {
		s.stopStream()
		return s.reject(err)
	}

	ctx, done := s.startStream(ctx)
	defer done()

	s.store.Dispatch(store.StreamStarted{Submission: submission(req)})

	st, err := s.backend.OpenStream(ctx, req)
	if err != nil {
		return s.endStream(ctx, err)
	}
	for evt, err := range st.All() {
		if err != nil {
			return s.endStream(ctx, err)
		}
		s.store.Dispatch(store.EventReceived{Event: evt, At: s.now()})
	}
	s.store.Dispatch(store.StreamEnded{})
	return nil
}

// Cancel stops the in-flight stream, if any, and waits for it to wind down.
func (s *Session) Cancel() { s.stopStream() }

func (s *Session) endStream(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		s.logger.Debug("stream cancelled", "error", err)
		s.store.Dispatch(store.StreamCancelled{})
		return ctx.Err()
	}
	s.logger.Debug("stream failed", "error", err)
	st := s.store.Dispatch(store.StreamEnded{Err: err})
	// An error event's message describes the failure better than the
	// connection close that follows it.
	if st.Error != "" && st.Error != err.Error() {
		return &client.StreamError{Message: st.Error, Err: err}
	}
	return err
}

// startStream cancels any stream in flight, waits for it, and registers a new
// one. The returned func must be called when the new stream is finished.
func (s *Session) startStream(parent context.Context) (context.Context, func()) {
	s.mu.Lock()
	for s.cancel != nil {
		cancel, prev := s.cancel, s.done
		s.mu.Unlock()
		cancel()
		<-prev
		s.mu.Lock()
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		cancel()
		close(done)
	}
}

func (s *Session) stopStream() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// prepare resolves defaults from the draft, validates and redacts. A rejected
// request is returned with a validation error and nothing dispatched.
func (s *Session) prepare(code string, lang review.Language) (review.ReviewRequest, error) {
	draft := s.store.Snapshot()
	if code == "" {
		code = draft.Code
	}
	if lang == "" {
		lang = draft.Language
	}
	req := review.ReviewRequest{Code: code, Language: lang, FileName: draft.FileName}

	if err := review.ValidateRequest(req); err != nil {
		return req, err
	}
	if s.redactSecrets && req.FileName != "" && redact.ShouldRedactPath(req.FileName, s.redactPaths) {
		return req, &review.ValidationError{
			Message: fmt.Sprintf("refusing to submit %s: file matches privacy.redactPaths", req.FileName),
		}
	}
	if s.redactSecrets {
		var n int
		req.Code, n = redact.Code(req.Code)
		if n > 0 {
			s.logger.Info("redacted secrets before submission", "count", n)
		}
	}
	return req, nil
}

func (s *Session) reject(err error) error {
	var ve *review.ValidationError
	msg := err.Error()
	if errors.As(err, &ve) {
		msg = ve.Message
	}
	s.store.Dispatch(store.ValidationFailed{Message: msg})
	return err
}

func submission(req review.ReviewRequest) store.Submission {
	return store.Submission{Language: req.Language, FileName: req.FileName}
}
