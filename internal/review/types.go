package review

import (
	"encoding/json"
	"fmt"
)

// Severity represents the severity level of a vulnerability or history entry.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists the history severity buckets, worst first.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
	SeverityNone,
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// ValidThreshold reports whether threshold is usable with MeetsThreshold.
func ValidThreshold(threshold string) bool {
	if threshold == "" || threshold == "none" {
		return true
	}
	return SeverityRank(Severity(threshold)) > 0
}

// Priority ranks a suggestion.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityRank returns a numeric rank for sorting (higher = more urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ReviewRequest is the body of a review submission.
type ReviewRequest struct {
	Code      string   `json:"code"`
	Language  Language `json:"language"`
	ProjectID string   `json:"projectId,omitempty"`
	FileName  string   `json:"fileName,omitempty"`
}

// Vulnerability is a security finding produced by the backend.
type Vulnerability struct {
	ID             string   `json:"id" yaml:"id"`
	Type           string   `json:"type" yaml:"type"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Line           int      `json:"line" yaml:"line"`
	Column         *int     `json:"column,omitempty" yaml:"column,omitempty"`
	Message        string   `json:"message" yaml:"message"`
	Description    string   `json:"description" yaml:"description"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	CWE            string   `json:"cwe,omitempty" yaml:"cwe,omitempty"`
}

// CodeQualityMetrics holds the quality scores for reviewed code.
// Maintainability, Coverage and Duplication are percentages.
type CodeQualityMetrics struct {
	Complexity      float64  `json:"complexity" yaml:"complexity"`
	Maintainability float64  `json:"maintainability" yaml:"maintainability"`
	Coverage        float64  `json:"coverage" yaml:"coverage"`
	Duplication     float64  `json:"duplication" yaml:"duplication"`
	Issues          []string `json:"issues" yaml:"issues"`
}

// Suggestion is an improvement proposed by the backend.
type Suggestion struct {
	ID         string   `json:"id" yaml:"id"`
	Category   string   `json:"category" yaml:"category"`
	Priority   Priority `json:"priority" yaml:"priority"`
	Message    string   `json:"message" yaml:"message"`
	Suggestion string   `json:"suggestion" yaml:"suggestion"`
	Line       *int     `json:"line,omitempty" yaml:"line,omitempty"`
}

// ReviewResult is the outcome of one completed review.
type ReviewResult struct {
	ID              string             `json:"id" yaml:"id"`
	Vulnerabilities []Vulnerability    `json:"vulnerabilities" yaml:"vulnerabilities"`
	CodeQuality     CodeQualityMetrics `json:"codeQuality" yaml:"codeQuality"`
	Suggestions     []Suggestion       `json:"suggestions" yaml:"suggestions"`
	Summary         string             `json:"summary" yaml:"summary"`
	OverallScore    float64            `json:"overallScore" yaml:"overallScore"`
	AnalysisTimeMs  int64              `json:"analysisTime" yaml:"analysisTime"`
}

// WorstSeverity returns the most severe vulnerability severity, or
// SeverityNone when there are no vulnerabilities.
func (r *ReviewResult) WorstSeverity() Severity {
	worst := SeverityNone
	for _, v := range r.Vulnerabilities {
		if SeverityRank(v.Severity) > SeverityRank(worst) {
			worst = v.Severity
		}
	}
	return worst
}

// SeverityCounts holds vulnerability counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Total returns the sum of all counts.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info
}

// CountSeverities tallies vulnerabilities by severity.
func CountSeverities(vulns []Vulnerability) SeverityCounts {
	var c SeverityCounts
	for _, v := range vulns {
		switch v.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		case SeverityInfo:
			c.Info++
		}
	}
	return c
}

// Project is a backend grouping of reviews.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
	ReviewCount  int     `json:"reviewCount"`
	AverageScore float64 `json:"averageScore"`
}

// RemoteStats is the aggregate reported by the backend's stats endpoint.
type RemoteStats struct {
	TotalReviews         int     `json:"totalReviews"`
	TotalVulnerabilities int     `json:"totalVulnerabilities"`
	AverageScore         float64 `json:"averageScore"`
	CriticalIssues       int     `json:"criticalIssues"`
}

// Health is the backend health probe response.
type Health struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// EventType tags a StreamEvent.
type EventType string

const (
	EventStart         EventType = "start"
	EventVulnerability EventType = "vulnerability"
	EventQuality       EventType = "quality"
	EventSuggestion    EventType = "suggestion"
	EventSummary       EventType = "summary"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
	// EventChunk carries raw model output. Not part of the progress protocol.
	EventChunk EventType = "chunk"
)

// StreamEvent is one message of a streamed review.
type StreamEvent struct {
	Type    EventType       `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Content string          `json:"content,omitempty"`
}

// Result decodes the event payload as a ReviewResult.
func (e StreamEvent) Result() (*ReviewResult, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var r ReviewResult
	if err := json.Unmarshal(e.Data, &r); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return &r, nil
}
