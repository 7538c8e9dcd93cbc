package analytics

import (
	"math"
	"sort"

	"github.com/dshills/codementor/internal/review"
)

// recentWindow is how many of the newest entries feed the score trend.
const recentWindow = 5

// Summary is the aggregate view of a review history.
type Summary struct {
	Empty                bool
	TotalReviews         int
	TotalVulnerabilities int
	AverageScore         int
	CriticalCount        int
	ByLanguage           map[review.Language]int
	BySeverity           map[review.Severity]int
	// RecentScores holds the scores of the newest entries, newest first.
	RecentScores []float64
}

// LanguageCount pairs a language with its review count.
type LanguageCount struct {
	Language review.Language
	Count    int
}

// Compute summarizes history, which is ordered newest first.
func Compute(history []review.HistoryEntry) Summary {
	s := Summary{
		Empty:      len(history) == 0,
		ByLanguage: make(map[review.Language]int),
		BySeverity: make(map[review.Severity]int),
	}
	if s.Empty {
		return s
	}

	var scoreSum float64
	for _, e := range history {
		s.TotalReviews++
		s.TotalVulnerabilities += e.VulnerabilityCount
		scoreSum += e.Score
		if e.Severity == review.SeverityCritical {
			s.CriticalCount++
		}
		s.ByLanguage[e.Language]++
		s.BySeverity[bucket(e.Severity)]++
	}
	s.AverageScore = int(math.Round(scoreSum / float64(s.TotalReviews)))

	n := min(recentWindow, len(history))
	s.RecentScores = make([]float64, n)
	for i := range n {
		s.RecentScores[i] = history[i].Score
	}
	return s
}

// bucket maps unknown severities to none so every entry lands in exactly one
// bucket.
func bucket(sev review.Severity) review.Severity {
	if sev == review.SeverityNone || review.SeverityRank(sev) > 0 {
		return sev
	}
	return review.SeverityNone
}

// Languages returns per-language counts ordered by count descending, then by
// language name.
func (s Summary) Languages() []LanguageCount {
	out := make([]LanguageCount, 0, len(s.ByLanguage))
	for lang, n := range s.ByLanguage {
		out = append(out, LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}

// MaxLanguageCount returns the largest per-language count, or 0.
func (s Summary) MaxLanguageCount() int {
	maxCount := 0
	for _, n := range s.ByLanguage {
		maxCount = max(maxCount, n)
	}
	return maxCount
}

// SeverityShare returns the fraction of reviews whose worst severity is sev.
func (s Summary) SeverityShare(sev review.Severity) float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.BySeverity[sev]) / float64(s.TotalReviews)
}
