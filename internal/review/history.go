package review

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// HistoryEntry is a session-local record of one completed review.
type HistoryEntry struct {
	ID                 string    `json:"id" yaml:"id"`
	FileName           string    `json:"fileName" yaml:"fileName"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	Language           Language  `json:"language" yaml:"language"`
	VulnerabilityCount int       `json:"vulnerabilityCount" yaml:"vulnerabilityCount"`
	Severity           Severity  `json:"severity" yaml:"severity"`
	Score              float64   `json:"score" yaml:"score"`
}

// NewHistoryEntry derives a history entry from a completed result.
// The result ID is reused; a ULID is minted when the backend sent none.
func NewHistoryEntry(r *ReviewResult, lang Language, fileName string, now time.Time) HistoryEntry {
	id := r.ID
	if id == "" {
		id = ulid.Make().String()
	}
	if fileName == "" {
		fileName = string(lang) + "_review"
	}
	return HistoryEntry{
		ID:                 id,
		FileName:           fileName,
		Timestamp:          now.UTC(),
		Language:           lang,
		VulnerabilityCount: len(r.Vulnerabilities),
		Severity:           r.WorstSeverity(),
		Score:              r.OverallScore,
	}
}

// RemoveEntry returns a copy of entries without the entry whose ID matches.
// The relative order of the remaining entries is preserved.
func RemoveEntry(entries []HistoryEntry, id string) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
