package store

import (
	"time"

	"github.com/dshills/codementor/internal/review"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	isAction()
}

// SetCode replaces the draft code.
type SetCode struct{ Code string }

// SetLanguage replaces the draft language.
type SetLanguage struct{ Language review.Language }

// SetFileName names the draft, used for history entries.
type SetFileName struct{ FileName string }

// SetHistory replaces the history list.
type SetHistory struct{ Entries []review.HistoryEntry }

// Reset clears the draft, result, progress and error. History is kept.
type Reset struct{}

// ValidationFailed records a submission rejected before any network call.
type ValidationFailed struct{ Message string }

// SubmitStarted marks the start of a request/response review.
type SubmitStarted struct{ Submission Submission }

// StreamStarted marks the start of a streamed review.
type StreamStarted struct{ Submission Submission }

// RequestSucceeded installs the result of a request/response review.
type RequestSucceeded struct {
	Result review.ReviewResult
	At     time.Time
}

// RequestFailed records a transport failure.
type RequestFailed struct{ Message string }

// EventReceived applies one stream event.
type EventReceived struct {
	Event review.StreamEvent
	At    time.Time
}

// StreamEnded records the end of a stream. Err is nil when the stream
// delivered its complete event.
type StreamEnded struct{ Err error }

// StreamCancelled records a stream closed by its owner.
type StreamCancelled struct{}

// DeleteHistory removes one history entry by ID.
type DeleteHistory struct{ ID string }

func (SetCode) isAction()          {}
func (SetLanguage) isAction()      {}
func (SetFileName) isAction()      {}
func (SetHistory) isAction()       {}
func (Reset) isAction()            {}
func (ValidationFailed) isAction() {}
func (SubmitStarted) isAction()    {}
func (StreamStarted) isAction()    {}
func (RequestSucceeded) isAction() {}
func (RequestFailed) isAction()    {}
func (EventReceived) isAction()    {}
func (StreamEnded) isAction()      {}
func (StreamCancelled) isAction()  {}
func (DeleteHistory) isAction()    {}
