package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dshills/codementor/internal/review"
)

const (
	ruleWidth = 60
	barWidth  = 20
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, rep *Report) error {
	ew := &errWriter{w: w}
	r := rep.Result
	if r == nil {
		ew.println("No review result.")
		return ew.err
	}

	ew.printf("Code Review - %s\n", reportTitle(rep))
	ew.println(strings.Repeat("─", ruleWidth))
	ew.printf("Score: %s %s\n", formatScore(r.OverallScore), scoreBar(r.OverallScore, barWidth))
	if r.Summary != "" {
		for _, line := range wrapText(r.Summary, 70) {
			ew.printf("  %s\n", line)
		}
	}

	q := r.CodeQuality
	ew.println("")
	ew.println("Code Quality")
	ew.printf("  %-16s %6.1f   %-16s %5.0f%%\n", "Complexity", q.Complexity, "Maintainability", q.Maintainability)
	ew.printf("  %-16s %5.0f%%   %-16s %5.0f%%\n", "Coverage", q.Coverage, "Duplication", q.Duplication)
	for _, issue := range q.Issues {
		ew.printf("  - %s\n", issue)
	}

	counts := review.CountSeverities(r.Vulnerabilities)
	ew.println("")
	ew.println(strings.Repeat("─", ruleWidth))
	ew.printf("Vulnerabilities: %d", len(r.Vulnerabilities))
	if counts.Total() > 0 {
		ew.printf(" (%d critical, %d high, %d medium, %d low, %d info)",
			counts.Critical, counts.High, counts.Medium, counts.Low, counts.Info)
	}
	ew.println("")
	ew.println(strings.Repeat("─", ruleWidth))

	if len(r.Vulnerabilities) == 0 {
		ew.println("\nNo vulnerabilities found.")
	}

	grouped := groupBySeverity(r.Vulnerabilities)
	for _, sev := range review.Severities {
		vulns := grouped[sev]
		if len(vulns) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		sort.SliceStable(vulns, func(i, j int) bool { return vulns[i].Line < vulns[j].Line })
		for _, v := range vulns {
			ew.printf("\n  %s  %s\n", location(v.Line, v.Column), vulnTitle(v))
			if v.CWE != "" {
				ew.printf("  %s\n", v.CWE)
			}
			for _, line := range wrapText(v.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if v.Recommendation != "" {
				ew.println("  Recommendation:")
				for _, line := range wrapText(v.Recommendation, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	if len(r.Suggestions) > 0 {
		ew.printf("\n%s\n", strings.Repeat("─", ruleWidth))
		ew.printf("Suggestions: %d\n", len(r.Suggestions))
		for _, s := range sortedSuggestions(r.Suggestions) {
			loc := ""
			if s.Line != nil {
				loc = fmt.Sprintf(" (line %d)", *s.Line)
			}
			ew.printf("\n  [%s] %s%s\n", s.Priority, s.Category, loc)
			for _, line := range wrapText(s.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if s.Suggestion != "" {
				for _, line := range wrapText(s.Suggestion, 70) {
					ew.printf("    > %s\n", line)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", ruleWidth))
	ew.printf("Completed in %s\n", analysisTime(r.AnalysisTimeMs))

	return ew.err
}

func reportTitle(rep *Report) string {
	lang := rep.Language.Label()
	if rep.Language == "" {
		lang = "unknown language"
	}
	if rep.FileName == "" {
		return lang
	}
	return fmt.Sprintf("%s (%s)", rep.FileName, lang)
}

func vulnTitle(v review.Vulnerability) string {
	switch {
	case v.Type != "" && v.Message != "":
		return v.Type + ": " + v.Message
	case v.Message != "":
		return v.Message
	default:
		return v.Type
	}
}

func location(line int, col *int) string {
	if col != nil {
		return fmt.Sprintf("line %d:%d", line, *col)
	}
	return fmt.Sprintf("line %d", line)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.0f/100", score)
}

// scoreBar renders score (0-100) as a fixed-width bar.
func scoreBar(score float64, width int) string {
	filled := int(score/100*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func analysisTime(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func groupBySeverity(vulns []review.Vulnerability) map[review.Severity][]review.Vulnerability {
	m := make(map[review.Severity][]review.Vulnerability)
	for _, v := range vulns {
		sev := v.Severity
		if review.SeverityRank(sev) == 0 {
			sev = review.SeverityInfo
		}
		m[sev] = append(m[sev], v)
	}
	return m
}

// sortedSuggestions returns suggestions ordered by priority, highest first.
func sortedSuggestions(in []review.Suggestion) []review.Suggestion {
	out := append([]review.Suggestion(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return review.PriorityRank(out[i].Priority) > review.PriorityRank(out[j].Priority)
	})
	return out
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	case review.SeverityInfo:
		return "[i]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
