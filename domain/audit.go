package domain

// Severity represents the severity of a single audit finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
)

// Severities lists all severities in display order (most severe first)
var Severities = []Severity{SeverityError, SeverityWarning, SeverityNotice}

// Category represents one analysis dimension of a page audit
type Category string

const (
	CategoryAccessibility      Category = "accessibility"
	CategoryPerformance        Category = "performance"
	CategorySEO                Category = "seo"
	CategoryContentWeight      Category = "content_weight"
	CategoryMobileFriendliness Category = "mobile_friendliness"
)

// Categories lists all categories in canonical order.
// Emitters iterate this slice instead of ranging over maps so that
// output is byte-identical across runs.
var Categories = []Category{
	CategoryAccessibility,
	CategoryPerformance,
	CategorySEO,
	CategoryContentWeight,
	CategoryMobileFriendliness,
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns the human-readable category name
func (c Category) Title() string {
	switch c {
	case CategoryAccessibility:
		return "Accessibility"
	case CategoryPerformance:
		return "Performance"
	case CategorySEO:
		return "SEO"
	case CategoryContentWeight:
		return "Content Weight"
	case CategoryMobileFriendliness:
		return "Mobile Friendliness"
	default:
		return string(c)
	}
}

// PageStatus represents the outcome of auditing a single page
type PageStatus string

const (
	// PageStatusPassed means the page was audited and met the thresholds
	PageStatusPassed PageStatus = "passed"

	// PageStatusFailed means the page was audited but did not meet the thresholds
	PageStatusFailed PageStatus = "failed"

	// PageStatusSkipped means the page was deliberately not audited
	PageStatusSkipped PageStatus = "skipped"

	// PageStatusCrashed means the audit task for the page died before producing results
	PageStatusCrashed PageStatus = "crashed"
)

// IsValid reports whether s is a known page status
func (s PageStatus) IsValid() bool {
	switch s {
	case PageStatusPassed, PageStatusFailed, PageStatusSkipped, PageStatusCrashed:
		return true
	}
	return false
}

// Tested reports whether a page with this status counts as tested.
// Skipped pages were never audited and are excluded from all aggregates.
func (s PageStatus) Tested() bool {
	return s.IsValid() && s != PageStatusSkipped
}

// Issue represents a single audit finding on a page
type Issue struct {
	// Severity is always set; legacy string-shaped findings are upgraded to notices
	Severity Severity `json:"severity" yaml:"severity"`

	// Code identifies the rule that produced the finding (e.g. WCAG "1.1.1")
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	// Message is the human-readable description; never empty
	Message string `json:"message" yaml:"message"`

	// Selector locates the finding in the page (CSS selector or line hint)
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`

	// Remediation suggests how to fix the finding
	Remediation string `json:"remediation,omitempty" yaml:"remediation,omitempty"`
}

// CategoryResult holds one analysis dimension's outcome for one page.
// A category the analyzers did not measure has no CategoryResult at all;
// there is no null-score state inside a populated result.
type CategoryResult struct {
	Category Category `json:"category" yaml:"category"`

	// Score is in [0,100]; the normalizer rejects out-of-range values
	Score float64 `json:"score" yaml:"score"`

	// Grade is derived from Score via GradeForScore
	Grade string `json:"grade" yaml:"grade"`

	Issues []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// CountBySeverity returns the number of issues with the given severity
func (r CategoryResult) CountBySeverity(severity Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}

// PageRecord aggregates the audit outcome for a single URL
type PageRecord struct {
	URL        string     `json:"url" yaml:"url"`
	Title      string     `json:"title,omitempty" yaml:"title,omitempty"`
	Status     PageStatus `json:"status" yaml:"status"`
	DurationMs int64      `json:"duration_ms" yaml:"duration_ms"`

	// Categories maps category to result; 0 to 5 entries.
	// Skipped and crashed pages carry no entries.
	Categories map[Category]CategoryResult `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Result returns the result for a category and whether it is present
func (p PageRecord) Result(category Category) (CategoryResult, bool) {
	result, ok := p.Categories[category]
	return result, ok
}

// HasData reports whether at least one category was measured for the page
func (p PageRecord) HasData() bool {
	return len(p.Categories) > 0
}

// IssueCount returns the total number of issues with the given severity across all categories
func (p PageRecord) IssueCount(severity Severity) int {
	count := 0
	for _, result := range p.Categories {
		count += result.CountBySeverity(severity)
	}
	return count
}

// Summary provides run-level aggregate statistics.
// It is recomputed from the page list by the scoring engine every time a
// record is finalized and must never be mutated independently.
type Summary struct {
	TotalPages   int `json:"total_pages" yaml:"total_pages"`
	TestedPages  int `json:"tested_pages" yaml:"tested_pages"`
	PassedPages  int `json:"passed_pages" yaml:"passed_pages"`
	FailedPages  int `json:"failed_pages" yaml:"failed_pages"`
	CrashedPages int `json:"crashed_pages" yaml:"crashed_pages"`
	SkippedPages int `json:"skipped_pages" yaml:"skipped_pages"`

	TotalErrors   int `json:"total_errors" yaml:"total_errors"`
	TotalWarnings int `json:"total_warnings" yaml:"total_warnings"`
	TotalNotices  int `json:"total_notices" yaml:"total_notices"`

	// OverallScore is the mean of per-page composites over pages with data
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`

	// OverallGrade and CertificateTier are both derived from OverallScore
	// and always recomputed together
	OverallGrade    string `json:"overall_grade" yaml:"overall_grade"`
	CertificateTier string `json:"certificate_tier" yaml:"certificate_tier"`
}

// RunMetadata describes how and when an audit run was produced
type RunMetadata struct {
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	SourceURL   string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	ToolVersion string `json:"tool_version" yaml:"tool_version"`
}

// AuditRunRecord is the complete, typed result of one audit run.
// The page list is the single source of truth; Summary is always derivable
// from it. A corrected run produces a new record, never an in-place update.
type AuditRunRecord struct {
	Metadata RunMetadata  `json:"metadata" yaml:"metadata"`
	Summary  Summary      `json:"summary" yaml:"summary"`
	Pages    []PageRecord `json:"pages" yaml:"pages"`

	// Warnings carries normalization warnings plus any validation problems
	// downgraded under the tolerant policy. Every emitter renders them so
	// consumers can tell a partial record from a complete one.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
