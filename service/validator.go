package service

import (
	"fmt"

	"github.com/ludo-technologies/siteaudit/domain"
)

// Completeness deductions per missing category on a tested page.
// Completeness is advisory: it is reported but never gates emission.
const (
	recommendedDeduction = 15.0
	optionalDeduction    = 5.0
)

// recommendedCategories are the analyses a normal audit run always produces
var recommendedCategories = []domain.Category{
	domain.CategoryAccessibility,
	domain.CategoryPerformance,
}

// optionalCategories are analyses commonly disabled on constrained runs
var optionalCategories = []domain.Category{
	domain.CategoryContentWeight,
	domain.CategoryMobileFriendliness,
}

// ValidatorImpl checks structural invariants and data completeness on a
// typed record. It implements domain.Validator and never mutates the record.
type ValidatorImpl struct{}

// NewValidator creates a new validator
func NewValidator() *ValidatorImpl {
	return &ValidatorImpl{}
}

// Validate runs all checks against the record. Under the fail-fast policy
// problems are errors and Valid turns false; under the tolerant policy the
// same problems are downgraded to warnings and the record proceeds.
func (v *ValidatorImpl) Validate(record *domain.AuditRunRecord, policy domain.ValidationPolicy, required []domain.Category) domain.ValidationResult {
	var problems []domain.ValidationIssue

	problems = append(problems, v.checkStructure(record)...)
	problems = append(problems, v.checkRequired(record, required)...)

	result := domain.ValidationResult{Valid: true}
	for _, problem := range problems {
		if policy == domain.PolicyFailFast {
			problem.Severity = domain.SeverityError
			result.Errors = append(result.Errors, problem)
			result.Valid = false
		} else {
			problem.Severity = domain.SeverityWarning
			result.Warnings = append(result.Warnings, problem)
		}
	}

	result.Completeness, result.PageCompleteness = v.completeness(record.Pages)
	return result
}

// checkStructure verifies the invariants the normalizer is supposed to
// guarantee. A violation here means the record was built or modified outside
// the normalizer.
func (v *ValidatorImpl) checkStructure(record *domain.AuditRunRecord) []domain.ValidationIssue {
	var problems []domain.ValidationIssue

	incomplete := func(url, message string) {
		problems = append(problems, domain.ValidationIssue{
			Code:    domain.ErrCodeIncompleteData,
			URL:     url,
			Message: message,
		})
	}

	seen := make(map[string]bool, len(record.Pages))
	for i, page := range record.Pages {
		if page.URL == "" {
			incomplete("", fmt.Sprintf("page %d has no URL", i))
		} else if seen[page.URL] {
			incomplete(page.URL, "duplicate page URL")
		} else {
			seen[page.URL] = true
		}

		if !page.Status.IsValid() {
			incomplete(page.URL, fmt.Sprintf("invalid status %q", page.Status))
		}
		if page.DurationMs < 0 {
			incomplete(page.URL, fmt.Sprintf("negative duration %d", page.DurationMs))
		}
		if page.Status == domain.PageStatusSkipped && page.HasData() {
			incomplete(page.URL, "skipped page carries category results")
		}

		for _, category := range domain.Categories {
			result, ok := page.Result(category)
			if !ok {
				continue
			}
			if result.Score < 0 || result.Score > 100 {
				incomplete(page.URL, fmt.Sprintf("%s score %v outside [0,100]", category, result.Score))
			}
			if result.Grade != domain.GradeForScore(result.Score) {
				incomplete(page.URL, fmt.Sprintf("%s grade %q does not match score %v", category, result.Grade, result.Score))
			}
			for _, issue := range result.Issues {
				if issue.Message == "" {
					incomplete(page.URL, fmt.Sprintf("%s issue with empty message", category))
				}
			}
		}
	}

	return problems
}

// checkRequired flags tested pages missing a caller-required category
func (v *ValidatorImpl) checkRequired(record *domain.AuditRunRecord, required []domain.Category) []domain.ValidationIssue {
	var problems []domain.ValidationIssue
	for _, page := range record.Pages {
		if !page.Status.Tested() {
			continue
		}
		for _, category := range required {
			if _, ok := page.Result(category); !ok {
				problems = append(problems, domain.ValidationIssue{
					Code:    domain.ErrCodeMissingAnalysis,
					URL:     page.URL,
					Message: fmt.Sprintf("required category %s absent", category),
				})
			}
		}
	}
	return problems
}

// completeness scores how much of the expected analysis surface each tested
// page carries: 100 minus 15 per missing recommended category and 5 per
// missing optional one, floored at 0. The run score is the mean over tested
// pages; skipped pages were never audited and are excluded.
func (v *ValidatorImpl) completeness(pages []domain.PageRecord) (float64, map[string]float64) {
	perPage := make(map[string]float64)
	var sum float64
	var tested int

	for _, page := range pages {
		if !page.Status.Tested() {
			continue
		}
		score := 100.0
		for _, category := range recommendedCategories {
			if _, ok := page.Result(category); !ok {
				score -= recommendedDeduction
			}
		}
		for _, category := range optionalCategories {
			if _, ok := page.Result(category); !ok {
				score -= optionalDeduction
			}
		}
		if score < 0 {
			score = 0
		}
		perPage[page.URL] = score
		sum += score
		tested++
	}

	if tested == 0 {
		return 100, nil
	}
	return roundScore(sum / float64(tested)), perPage
}
