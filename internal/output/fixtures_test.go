package output

import "github.com/dshills/codementor/internal/review"

func intPtr(n int) *int { return &n }

func sampleReport() *Report {
	return &Report{
		FileName: "handler.py",
		Language: review.LangPython,
		Result: &review.ReviewResult{
			ID: "rev-42",
			Vulnerabilities: []review.Vulnerability{
				{
					ID:             "v1",
					Type:           "SQL Injection",
					Severity:       review.SeverityCritical,
					Line:           12,
					Column:         intPtr(8),
					Message:        "Query built from user input",
					Description:    "The query string concatenates request parameters.",
					Recommendation: "Use parameterized queries",
					CWE:            "CWE-89",
				},
				{
					ID:          "v2",
					Type:        "Weak Hash",
					Severity:    review.SeverityLow,
					Line:        30,
					Message:     "MD5 used for passwords",
					Description: "MD5 is not suitable for password storage.",
				},
			},
			CodeQuality: review.CodeQualityMetrics{
				Complexity:      7.5,
				Maintainability: 64,
				Coverage:        20,
				Duplication:     4,
				Issues:          []string{"Function too long"},
			},
			Suggestions: []review.Suggestion{
				{ID: "s1", Category: "style", Priority: review.PriorityLow, Message: "Rename variable"},
				{ID: "s2", Category: "security", Priority: review.PriorityHigh, Message: "Validate input", Line: intPtr(10)},
			},
			Summary:        "Two issues need attention.",
			OverallScore:   62,
			AnalysisTimeMs: 1500,
		},
	}
}

func cleanReport() *Report {
	return &Report{
		Language: review.LangGo,
		Result: &review.ReviewResult{
			ID:           "rev-clean",
			Summary:      "Looks good.",
			OverallScore: 98,
		},
	}
}
