package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/service"
)

func scoredPage(url string, status domain.PageStatus, scores map[domain.Category]float64) domain.PageRecord {
	page := domain.PageRecord{URL: url, Status: status}
	if len(scores) > 0 {
		page.Categories = make(map[domain.Category]domain.CategoryResult)
		for category, score := range scores {
			page.Categories[category] = domain.CategoryResult{
				Category: category,
				Score:    score,
				Grade:    domain.GradeForScore(score),
			}
		}
	}
	return page
}

func TestScore_PartialCategories(t *testing.T) {
	// (90*0.35 + 80*0.25) / 0.60 = 85.83..., rounded to 85.8
	pages := []domain.PageRecord{
		scoredPage("https://example.com/", domain.PageStatusPassed, map[domain.Category]float64{
			domain.CategoryAccessibility: 90,
			domain.CategoryPerformance:   80,
		}),
	}

	summary := service.NewScoringEngine().Score(pages)

	assert.InDelta(t, 85.8, summary.OverallScore, 1e-9)
	assert.Equal(t, "B", summary.OverallGrade)
	assert.Equal(t, domain.TierGold, summary.CertificateTier)
	assert.Equal(t, 1, summary.TestedPages)
}

func TestScore_SkippedPagesExcluded(t *testing.T) {
	pages := []domain.PageRecord{
		scoredPage("https://example.com/", domain.PageStatusPassed, map[domain.Category]float64{
			domain.CategoryAccessibility: 90,
		}),
		scoredPage("https://example.com/skipped", domain.PageStatusSkipped, nil),
	}

	summary := service.NewScoringEngine().Score(pages)

	assert.Equal(t, 90.0, summary.OverallScore, "a skipped page must not drag the mean down")
	assert.Equal(t, 2, summary.TotalPages)
	assert.Equal(t, 1, summary.TestedPages)
	assert.Equal(t, 1, summary.SkippedPages)
}

func TestScore_CrashedPagesCountAsTested(t *testing.T) {
	pages := []domain.PageRecord{
		scoredPage("https://example.com/", domain.PageStatusPassed, map[domain.Category]float64{
			domain.CategorySEO: 80,
		}),
		scoredPage("https://example.com/dead", domain.PageStatusCrashed, nil),
	}

	summary := service.NewScoringEngine().Score(pages)

	assert.Equal(t, 2, summary.TestedPages)
	assert.Equal(t, 1, summary.CrashedPages)
	// The crashed page has no data, so the mean covers the one scored page
	assert.Equal(t, 80.0, summary.OverallScore)
}

func TestScore_IssueTotals(t *testing.T) {
	page := scoredPage("https://example.com/", domain.PageStatusFailed, map[domain.Category]float64{
		domain.CategoryAccessibility: 55,
	})
	result := page.Categories[domain.CategoryAccessibility]
	result.Issues = []domain.Issue{
		{Severity: domain.SeverityError, Message: "a"},
		{Severity: domain.SeverityError, Message: "b"},
		{Severity: domain.SeverityWarning, Message: "c"},
		{Severity: domain.SeverityNotice, Message: "d"},
	}
	page.Categories[domain.CategoryAccessibility] = result

	summary := service.NewScoringEngine().Score([]domain.PageRecord{page})

	assert.Equal(t, 2, summary.TotalErrors)
	assert.Equal(t, 1, summary.TotalWarnings)
	assert.Equal(t, 1, summary.TotalNotices)
	assert.Equal(t, 1, summary.FailedPages)
}

func TestScore_EmptyRun(t *testing.T) {
	summary := service.NewScoringEngine().Score(nil)

	assert.Equal(t, 0, summary.TotalPages)
	assert.Equal(t, 0.0, summary.OverallScore)
	assert.Equal(t, "F", summary.OverallGrade)
	assert.Equal(t, domain.TierNeedsImprovement, summary.CertificateTier)
}

func TestScore_Deterministic(t *testing.T) {
	pages := []domain.PageRecord{
		scoredPage("https://example.com/a", domain.PageStatusPassed, map[domain.Category]float64{
			domain.CategoryAccessibility:      91.5,
			domain.CategoryPerformance:        72,
			domain.CategorySEO:                88,
			domain.CategoryContentWeight:      60,
			domain.CategoryMobileFriendliness: 100,
		}),
		scoredPage("https://example.com/b", domain.PageStatusFailed, map[domain.Category]float64{
			domain.CategoryPerformance: 45,
		}),
	}

	engine := service.NewScoringEngine()
	first := engine.Score(pages)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, engine.Score(pages))
	}
}
