package store

import (
	"log/slog"
	"sync"

	"github.com/dshills/codementor/internal/review"
)

// Store holds the current State and applies actions to it. Each Dispatch
// replaces the snapshot atomically.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscriber
	nextID int
	logger *slog.Logger
}

type subscriber struct {
	id int
	fn func(State)
}

// New creates a store holding initial.
func New(initial State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if initial.Status == nil {
		initial.Status = Idle{}
	}
	if initial.Phase == "" {
		initial.Phase = PhaseIdle
	}
	return &Store{state: initial.clone(), logger: logger}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a and notifies subscribers with the new state.
// Subscribers run with the store locked and must not call Dispatch.
func (s *Store) Dispatch(a Action) State {
	if ev, ok := a.(EventReceived); ok && ev.Event.Type == review.EventComplete {
		if _, err := ev.Event.Result(); err != nil {
			s.logger.Warn("ignoring malformed complete event", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	s.logger.Debug("state updated",
		"action", actionName(a),
		"status", s.state.Status.String(),
		"phase", s.state.Phase,
	)
	for _, sub := range s.subs {
		sub.fn(s.state.clone())
	}
	return s.state.clone()
}

// Subscribe registers fn to be called after every Dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func actionName(a Action) string {
	switch a := a.(type) {
	case EventReceived:
		return "event:" + string(a.Event.Type)
	case SetCode:
		return "set-code"
	case SetLanguage:
		return "set-language"
	case SetFileName:
		return "set-file-name"
	case SetHistory:
		return "set-history"
	case Reset:
		return "reset"
	case ValidationFailed:
		return "validation-failed"
	case SubmitStarted:
		return "submit-started"
	case StreamStarted:
		return "stream-started"
	case RequestSucceeded:
		return "request-succeeded"
	case RequestFailed:
		return "request-failed"
	case StreamEnded:
		return "stream-ended"
	case StreamCancelled:
		return "stream-cancelled"
	case DeleteHistory:
		return "delete-history"
	default:
		return "unknown"
	}
}
