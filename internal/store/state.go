package store

import "github.com/dshills/codementor/internal/review"

// Phase is the informational progress phase of a streamed review.
// It never gates behavior.
type Phase string

const (
	PhaseIdle                     Phase = "idle"
	PhaseStarting                 Phase = "starting"
	PhaseAnalyzingVulnerabilities Phase = "analyzing-vulnerabilities"
	PhaseCheckingQuality          Phase = "checking-quality"
	PhaseGeneratingSuggestions    Phase = "generating-suggestions"
	PhaseFinalizing               Phase = "finalizing"
	PhaseComplete                 Phase = "complete"
	PhaseError                    Phase = "error"
)

// Progress texts shown while a review runs.
const (
	ProgressInitializing    = "Initializing review..."
	ProgressStarting        = "Starting analysis..."
	ProgressVulnerabilities = "Analyzing vulnerabilities..."
	ProgressQuality         = "Checking code quality..."
	ProgressSuggestions     = "Generating suggestions..."
	ProgressFinalizing      = "Finalizing review..."
	ProgressComplete        = "Review complete!"

	// DefaultErrorMessage is used when an error event carries no message.
	DefaultErrorMessage = "An error occurred"
)

// Status is the submission status. Exactly one variant holds at a time.
type Status interface {
	isStatus()
	String() string
}

// Idle means no review has been attempted since the last reset.
type Idle struct{}

// Submitting means a request/response review is in flight.
type Submitting struct{}

// Streaming means a streamed review is in flight.
type Streaming struct {
	Progress string
}

// Succeeded means the last review completed.
type Succeeded struct {
	Result *review.ReviewResult
}

// Failed means the last review was rejected or failed.
type Failed struct {
	Message string
}

func (Idle) isStatus()       {}
func (Submitting) isStatus() {}
func (Streaming) isStatus()  {}
func (Succeeded) isStatus()  {}
func (Failed) isStatus()     {}

func (Idle) String() string       { return "idle" }
func (Submitting) String() string { return "submitting" }
func (Streaming) String() string  { return "streaming" }
func (Succeeded) String() string  { return "succeeded" }
func (Failed) String() string     { return "failed" }

// Submission records what the in-flight or last review was for.
type Submission struct {
	Language review.Language
	FileName string
}

// State is an immutable snapshot of the client. Reduce never mutates a
// State it is given; History slices are not shared between snapshots.
type State struct {
	Code       string
	Language   review.Language
	FileName   string
	Submission Submission

	Status   Status
	Phase    Phase
	Result   *review.ReviewResult
	Progress string
	Error    string

	// History is ordered most-recent-first.
	History []review.HistoryEntry
}

// Initial returns the starting state for a session.
func Initial(lang review.Language) State {
	if lang == "" {
		lang = review.DefaultLanguage
	}
	return State{
		Language: lang,
		Status:   Idle{},
		Phase:    PhaseIdle,
	}
}

// IsLoading reports whether a request/response review is in flight.
func (s State) IsLoading() bool {
	_, ok := s.Status.(Submitting)
	return ok
}

// IsStreaming reports whether a streamed review is in flight.
func (s State) IsStreaming() bool {
	_, ok := s.Status.(Streaming)
	return ok
}

// Busy reports whether any review is in flight.
func (s State) Busy() bool {
	return s.IsLoading() || s.IsStreaming()
}

func (s State) clone() State {
	if s.History != nil {
		h := make([]review.HistoryEntry, len(s.History))
		copy(h, s.History)
		s.History = h
	}
	return s
}
