package output

import (
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dshills/codementor/internal/analytics"
	"github.com/dshills/codementor/internal/review"
)

// WriteAnalytics renders an analytics summary: overview numbers, bars per
// language and severity, and the recent score trend.
func WriteAnalytics(w io.Writer, s analytics.Summary) error {
	ew := &errWriter{w: w}
	if s.Empty {
		ew.println("No data available yet")
		return ew.err
	}

	ew.println("Overview")
	ew.println(strings.Repeat("─", ruleWidth))
	ew.printf("  %-24s %s\n", "Total reviews", humanize.Comma(int64(s.TotalReviews)))
	ew.printf("  %-24s %s\n", "Vulnerabilities found", humanize.Comma(int64(s.TotalVulnerabilities)))
	ew.printf("  %-24s %d\n", "Average score", s.AverageScore)
	ew.printf("  %-24s %d\n", "Critical reviews", s.CriticalCount)

	ew.println("")
	ew.println("Languages")
	ew.println(strings.Repeat("─", ruleWidth))
	maxCount := s.MaxLanguageCount()
	for _, lc := range s.Languages() {
		ew.printf("  %-12s %s %d\n", lc.Language.Label(), countBar(lc.Count, maxCount, barWidth), lc.Count)
	}

	ew.println("")
	ew.println("Severity")
	ew.println(strings.Repeat("─", ruleWidth))
	for _, sev := range review.Severities {
		n := s.BySeverity[sev]
		if n == 0 {
			continue
		}
		share := s.SeverityShare(sev)
		ew.printf("  %-12s %s %d (%.0f%%)\n", sev, countBar(n, s.TotalReviews, barWidth), n, share*100)
	}

	ew.println("")
	ew.println("Recent scores (newest first)")
	ew.println(strings.Repeat("─", ruleWidth))
	for _, score := range s.RecentScores {
		ew.printf("  %s %s\n", scoreBar(score, barWidth), formatScore(score))
	}

	return ew.err
}

func countBar(n, total, width int) string {
	if total <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := (n*width + total/2) / total
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}
