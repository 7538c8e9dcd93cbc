package store

import (
	"time"

	"github.com/dshills/codementor/internal/review"
)

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	s = s.clone()
	switch a := a.(type) {
	case SetCode:
		s.Code = a.Code
	case SetLanguage:
		s.Language = a.Language
	case SetFileName:
		s.FileName = a.FileName
	case SetHistory:
		s.History = append([]review.HistoryEntry(nil), a.Entries...)
	case Reset:
		s.Code = ""
		s.FileName = ""
		s.Result = nil
		s.Progress = ""
		s.Error = ""
		s.Status = Idle{}
		s.Phase = PhaseIdle
	case ValidationFailed:
		s.Result = nil
		s.Progress = ""
		s.Error = a.Message
		s.Status = Failed{Message: a.Message}
		s.Phase = PhaseError
	case SubmitStarted:
		s.Submission = a.Submission
		s.Result = nil
		s.Error = ""
		s.Progress = ""
		s.Status = Submitting{}
		s.Phase = PhaseStarting
	case StreamStarted:
		s.Submission = a.Submission
		s.Result = nil
		s.Error = ""
		s.Progress = ProgressInitializing
		s.Status = Streaming{Progress: ProgressInitializing}
		s.Phase = PhaseStarting
	case RequestSucceeded:
		r := a.Result
		s = complete(s, &r, a.At)
	case RequestFailed:
		s.Error = a.Message
		s.Status = Failed{Message: a.Message}
		s.Phase = PhaseError
	case EventReceived:
		s = applyEvent(s, a)
	case StreamEnded:
		if a.Err != nil {
			if s.Error == "" {
				s.Error = a.Err.Error()
			}
			s.Status = Failed{Message: s.Error}
			s.Phase = PhaseError
		} else if s.IsStreaming() {
			s.Status = Succeeded{Result: s.Result}
		}
	case StreamCancelled:
		if s.IsStreaming() {
			s.Progress = ""
			s.Status = Idle{}
			s.Phase = PhaseIdle
		}
	case DeleteHistory:
		s.History = review.RemoveEntry(s.History, a.ID)
	}
	return s
}

var eventProgress = map[review.EventType]struct {
	text  string
	phase Phase
}{
	review.EventStart:         {ProgressStarting, PhaseStarting},
	review.EventVulnerability: {ProgressVulnerabilities, PhaseAnalyzingVulnerabilities},
	review.EventQuality:       {ProgressQuality, PhaseCheckingQuality},
	review.EventSuggestion:    {ProgressSuggestions, PhaseGeneratingSuggestions},
	review.EventSummary:       {ProgressFinalizing, PhaseFinalizing},
}

// applyEvent maps one stream event onto the state. Events that arrive after
// complete or error are still applied.
func applyEvent(s State, a EventReceived) State {
	evt := a.Event
	if p, ok := eventProgress[evt.Type]; ok {
		s.Progress = p.text
		s.Phase = p.phase
		s.Status = Streaming{Progress: p.text}
		return s
	}

	switch evt.Type {
	case review.EventComplete:
		r, err := evt.Result()
		if err != nil {
			return s
		}
		if r == nil {
			s.Progress = ProgressComplete
			s.Phase = PhaseComplete
			s.Status = Succeeded{Result: s.Result}
			return s
		}
		s.Progress = ProgressComplete
		return complete(s, r, a.At)
	case review.EventError:
		msg := evt.Message
		if msg == "" {
			msg = DefaultErrorMessage
		}
		s.Error = msg
		s.Status = Failed{Message: msg}
		s.Phase = PhaseError
	}
	return s
}

// complete installs r as the current result and records it in history.
func complete(s State, r *review.ReviewResult, at time.Time) State {
	entry := review.NewHistoryEntry(r, s.Submission.Language, s.Submission.FileName, at)

	s.Result = r
	s.Status = Succeeded{Result: r}
	s.Phase = PhaseComplete

	history := make([]review.HistoryEntry, 0, len(s.History)+1)
	history = append(history, entry)
	s.History = append(history, s.History...)
	return s
}
