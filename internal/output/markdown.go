package output

import (
	"io"
	"sort"
	"strings"

	"github.com/dshills/codementor/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, rep *Report) error {
	ew := &errWriter{w: w}
	r := rep.Result
	if r == nil {
		ew.println("_No review result._")
		return ew.err
	}

	ew.printf("## Code Review: %s\n\n", reportTitle(rep))
	ew.printf("**Score:** %s\n\n", formatScore(r.OverallScore))
	if r.Summary != "" {
		ew.printf("%s\n\n", r.Summary)
	}

	q := r.CodeQuality
	ew.println("| Metric | Value |")
	ew.println("|--------|-------|")
	ew.printf("| Complexity | %.1f |\n", q.Complexity)
	ew.printf("| Maintainability | %.0f%% |\n", q.Maintainability)
	ew.printf("| Coverage | %.0f%% |\n", q.Coverage)
	ew.printf("| Duplication | %.0f%% |\n\n", q.Duplication)

	counts := review.CountSeverities(r.Vulnerabilities)
	ew.println("| Severity | Count |")
	ew.println("|----------|-------|")
	ew.printf("| Critical | %d |\n", counts.Critical)
	ew.printf("| High | %d |\n", counts.High)
	ew.printf("| Medium | %d |\n", counts.Medium)
	ew.printf("| Low | %d |\n", counts.Low)
	ew.printf("| Info | %d |\n", counts.Info)
	ew.printf("| **Total** | **%d** |\n\n", len(r.Vulnerabilities))

	if len(r.Vulnerabilities) == 0 {
		ew.println("No vulnerabilities found. :white_check_mark:")
		ew.println("")
	}

	grouped := groupBySeverity(r.Vulnerabilities)
	for _, sev := range review.Severities {
		vulns := grouped[sev]
		if len(vulns) == 0 {
			continue
		}

		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n",
			mdSeverityIcon(sev), strings.ToUpper(string(sev)), len(vulns))

		sort.SliceStable(vulns, func(i, j int) bool { return vulns[i].Line < vulns[j].Line })
		for _, v := range vulns {
			ew.printf("### %s\n\n", vulnTitle(v))
			ew.printf("**`%s`**", location(v.Line, v.Column))
			if v.CWE != "" {
				ew.printf(" | %s", v.CWE)
			}
			ew.printf("\n\n")
			if v.Description != "" {
				ew.printf("%s\n\n", v.Description)
			}
			if v.Recommendation != "" {
				ew.printf("**Recommendation:**\n\n")
				if looksLikeCode(v.Recommendation) {
					ew.printf("```%s\n%s\n```\n\n", rep.Language, v.Recommendation)
				} else {
					ew.printf("> %s\n\n", strings.ReplaceAll(v.Recommendation, "\n", "\n> "))
				}
			}
			ew.printf("---\n\n")
		}

		ew.printf("</details>\n\n")
	}

	if len(r.Suggestions) > 0 {
		ew.printf("### Suggestions\n\n")
		for _, s := range sortedSuggestions(r.Suggestions) {
			ew.printf("- **%s** (%s)", s.Category, s.Priority)
			if s.Line != nil {
				ew.printf(" line %d", *s.Line)
			}
			ew.printf(": %s\n", s.Message)
			if s.Suggestion != "" {
				ew.printf("  > %s\n", strings.ReplaceAll(s.Suggestion, "\n", "\n  > "))
			}
		}
		ew.println("")
	}

	ew.printf("*Reviewed in %s*\n", analysisTime(r.AnalysisTimeMs))

	return ew.err
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return ":no_entry:"
	case review.SeverityHigh:
		return ":red_circle:"
	case review.SeverityMedium:
		return ":orange_circle:"
	case review.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

func looksLikeCode(s string) bool {
	codeIndicators := []string{
		"func ", "if ", "for ", "return ", "var ", "const ",
		"def ", "class ", "import ", "from ",
		"{", "}", "=>", "->", ":=", "==",
		"()", "[];",
	}
	for _, indicator := range codeIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}
