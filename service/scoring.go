package service

import (
	"math"

	"github.com/ludo-technologies/siteaudit/domain"
)

// ScoringEngineImpl computes run summaries. It is a pure function of the
// page list; calling it twice on the same pages yields identical summaries.
type ScoringEngineImpl struct{}

// NewScoringEngine creates a new scoring engine
func NewScoringEngine() *ScoringEngineImpl {
	return &ScoringEngineImpl{}
}

// Score aggregates page records into a run summary. The overall score is
// the unweighted mean of per-page composites over pages that have at least
// one measured category; skipped pages and pages without data contribute
// nothing to it.
func (s *ScoringEngineImpl) Score(pages []domain.PageRecord) domain.Summary {
	summary := domain.Summary{TotalPages: len(pages)}

	var compositeSum float64
	var scoredPages int

	for _, page := range pages {
		switch page.Status {
		case domain.PageStatusPassed:
			summary.PassedPages++
		case domain.PageStatusFailed:
			summary.FailedPages++
		case domain.PageStatusCrashed:
			summary.CrashedPages++
		case domain.PageStatusSkipped:
			summary.SkippedPages++
		}
		if page.Status.Tested() {
			summary.TestedPages++
		}

		summary.TotalErrors += page.IssueCount(domain.SeverityError)
		summary.TotalWarnings += page.IssueCount(domain.SeverityWarning)
		summary.TotalNotices += page.IssueCount(domain.SeverityNotice)

		if composite, ok := page.Composite(); ok {
			compositeSum += composite
			scoredPages++
		}
	}

	if scoredPages > 0 {
		summary.OverallScore = roundScore(compositeSum / float64(scoredPages))
	}
	summary.OverallGrade = domain.GradeForScore(summary.OverallScore)
	summary.CertificateTier = domain.TierForScore(summary.OverallScore)

	return summary
}

// roundScore rounds to one decimal place, the precision carried into reports
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
