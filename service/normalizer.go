package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/siteaudit/domain"
)

// Legacy raw-page keys accepted for compatibility with older analyzer
// versions. Canonical keys always win; a legacy key is consulted only when
// its canonical counterpart is absent.
var categoryAliases = map[string]domain.Category{
	"contentWeight":      domain.CategoryContentWeight,
	"content-weight":     domain.CategoryContentWeight,
	"mobileFriendliness": domain.CategoryMobileFriendliness,
	"mobile":             domain.CategoryMobileFriendliness,
}

// Issue deduction points used when an analyzer reports issues without a
// score. Matches the deduction scale the accessibility engine applies.
const (
	errorDeduction   = 2.5
	warningDeduction = 1.0
)

// NormalizerImpl converts loosely structured analyzer output into typed
// page records. It implements domain.Normalizer.
type NormalizerImpl struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *NormalizerImpl {
	return &NormalizerImpl{}
}

// Normalize converts one raw page into a PageRecord. It never fails: every
// value it cannot interpret becomes a warning and the affected field or
// category is omitted from the record.
func (n *NormalizerImpl) Normalize(raw domain.RawPage) (domain.PageRecord, []domain.Warning) {
	var warnings []domain.Warning

	url, _ := toString(raw["url"])
	warn := func(category domain.Category, field, reason string) {
		warnings = append(warnings, domain.Warning{
			URL:      url,
			Category: category,
			Field:    field,
			Reason:   reason,
		})
	}

	if url == "" {
		warn("", "url", "missing or not a string")
	}

	page := domain.PageRecord{URL: url}

	if title, ok := toString(raw["title"]); ok {
		page.Title = title
	}

	page.Status = n.normalizeStatus(raw, warn)
	page.DurationMs = n.normalizeDuration(raw, warn)

	// Skipped pages carry no category results even when the crawler left
	// stale measurement bags behind
	if page.Status == domain.PageStatusSkipped {
		return page, warnings
	}

	for _, category := range domain.Categories {
		bag, ok := n.categoryBag(raw, category)
		if !ok {
			continue
		}
		result, resultOK := n.decodeCategory(category, bag, warn)
		if !resultOK {
			continue
		}
		if page.Categories == nil {
			page.Categories = make(map[domain.Category]domain.CategoryResult, len(domain.Categories))
		}
		page.Categories[category] = result
	}

	return page, warnings
}

// normalizeStatus maps the raw status tag onto a PageStatus. Unknown or
// missing tags mean the audit task died without reporting; such pages are
// recorded as crashed so they still show up in the summary counts.
func (n *NormalizerImpl) normalizeStatus(raw domain.RawPage, warn func(domain.Category, string, string)) domain.PageStatus {
	value, ok := toString(raw["status"])
	if !ok {
		warn("", "status", "missing status tag")
		return domain.PageStatusCrashed
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "passed", "pass", "ok":
		return domain.PageStatusPassed
	case "failed", "fail":
		return domain.PageStatusFailed
	case "skipped", "skip":
		return domain.PageStatusSkipped
	case "crashed", "error":
		return domain.PageStatusCrashed
	default:
		warn("", "status", fmt.Sprintf("unknown tag %q", value))
		return domain.PageStatusCrashed
	}
}

// normalizeDuration reads duration_ms (or the legacy duration key) leniently
func (n *NormalizerImpl) normalizeDuration(raw domain.RawPage, warn func(domain.Category, string, string)) int64 {
	value, present := raw["duration_ms"]
	field := "duration_ms"
	if !present {
		value, present = raw["duration"]
		field = "duration"
	}
	if !present || value == nil {
		warn("", "duration_ms", "missing duration")
		return 0
	}

	duration, ok := toFloat(value)
	if !ok {
		warn("", field, fmt.Sprintf("not numeric: %v", value))
		return 0
	}
	if duration < 0 {
		warn("", field, fmt.Sprintf("negative duration %v", duration))
		return 0
	}
	return int64(duration)
}

// categoryBag finds the raw measurement bag for a category, preferring the
// canonical key over legacy aliases
func (n *NormalizerImpl) categoryBag(raw domain.RawPage, category domain.Category) (any, bool) {
	if bag, ok := raw[string(category)]; ok && bag != nil {
		return bag, true
	}
	for alias, aliased := range categoryAliases {
		if aliased != category {
			continue
		}
		if bag, ok := raw[alias]; ok && bag != nil {
			return bag, true
		}
	}
	return nil, false
}

// decodeCategory decodes one measurement bag into a CategoryResult or
// reports why it could not. It never returns a partially populated result.
func (n *NormalizerImpl) decodeCategory(category domain.Category, bag any, warn func(domain.Category, string, string)) (domain.CategoryResult, bool) {
	// Bare-number bags are an accepted legacy shape: the score with no issues
	if score, ok := toFloat(bag); ok {
		return n.buildResult(category, score, nil, warn)
	}

	fields, ok := bag.(map[string]any)
	if !ok {
		warn(category, "", fmt.Sprintf("unexpected shape %T", bag))
		return domain.CategoryResult{}, false
	}

	issues := n.decodeIssues(category, fields, warn)

	score, scoreOK := n.decodeScore(category, fields, warn)
	if !scoreOK {
		if len(issues) == 0 {
			warn(category, "score", "missing score")
			return domain.CategoryResult{}, false
		}
		// Older analyzers report raw findings only; derive the score the
		// way the accessibility engine deducts points per finding
		score = deriveScore(issues)
		warn(category, "score", "missing score; derived from issue deductions")
	}

	return n.buildResult(category, score, issues, warn)
}

// buildResult validates the score range and assembles the final result
func (n *NormalizerImpl) buildResult(category domain.Category, score float64, issues []domain.Issue, warn func(domain.Category, string, string)) (domain.CategoryResult, bool) {
	if score < 0 || score > 100 {
		// Never clamp silently: report and mark the category absent
		warn(category, "score", fmt.Sprintf("value %v outside [0,100]", score))
		return domain.CategoryResult{}, false
	}
	return domain.CategoryResult{
		Category: category,
		Score:    score,
		Grade:    domain.GradeForScore(score),
		Issues:   issues,
	}, true
}

// decodeScore reads the canonical score field, falling back to the legacy
// value field. The canonical field always wins; consulting the legacy field
// is reported as a compatibility warning.
func (n *NormalizerImpl) decodeScore(category domain.Category, fields map[string]any, warn func(domain.Category, string, string)) (float64, bool) {
	if value, present := fields["score"]; present && value != nil {
		score, ok := toFloat(value)
		if !ok {
			warn(category, "score", fmt.Sprintf("not numeric: %v", value))
			return 0, false
		}
		return score, true
	}

	if value, present := fields["value"]; present && value != nil {
		score, ok := toFloat(value)
		if !ok {
			warn(category, "value", fmt.Sprintf("not numeric: %v", value))
			return 0, false
		}
		warn(category, "value", "using legacy score field")
		return score, true
	}

	return 0, false
}

// decodeIssues reads the canonical issues list, falling back to the legacy
// violations list. Entries that cannot be interpreted are dropped with a
// warning rather than half-decoded.
func (n *NormalizerImpl) decodeIssues(category domain.Category, fields map[string]any, warn func(domain.Category, string, string)) []domain.Issue {
	value, present := fields["issues"]
	field := "issues"
	if !present {
		value, present = fields["violations"]
		field = "violations"
	}
	if !present || value == nil {
		return nil
	}

	entries, ok := value.([]any)
	if !ok {
		warn(category, field, fmt.Sprintf("unexpected shape %T", value))
		return nil
	}

	issues := make([]domain.Issue, 0, len(entries))
	for i, entry := range entries {
		issue, ok := n.decodeIssue(entry)
		if !ok {
			warn(category, fmt.Sprintf("%s[%d]", field, i), "uninterpretable entry")
			continue
		}
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

// decodeIssue decodes one issue entry. Plain strings are a legacy shape and
// are upgraded to notices.
func (n *NormalizerImpl) decodeIssue(entry any) (domain.Issue, bool) {
	if message, ok := entry.(string); ok {
		if strings.TrimSpace(message) == "" {
			return domain.Issue{}, false
		}
		return domain.Issue{Severity: domain.SeverityNotice, Message: message}, true
	}

	fields, ok := entry.(map[string]any)
	if !ok {
		return domain.Issue{}, false
	}

	message, _ := toString(fields["message"])
	if message == "" {
		return domain.Issue{}, false
	}

	issue := domain.Issue{
		Severity: normalizeSeverity(fields["severity"]),
		Message:  message,
	}

	if code, ok := toString(fields["code"]); ok {
		issue.Code = code
	} else if rule, ok := toString(fields["rule"]); ok {
		issue.Code = rule
	}

	if selector, ok := toString(fields["selector"]); ok {
		issue.Selector = selector
	} else if node, ok := toString(fields["node"]); ok {
		issue.Selector = node
	}

	if remediation, ok := toString(fields["remediation"]); ok {
		issue.Remediation = remediation
	} else if fix, ok := toString(fields["fix_suggestion"]); ok {
		issue.Remediation = fix
	}

	return issue, true
}

// normalizeSeverity maps raw severity tags onto the three-level scale.
// The accessibility engine's four-level scale collapses onto it: critical
// and serious are errors, moderate is a warning, minor is a notice.
func normalizeSeverity(value any) domain.Severity {
	tag, _ := toString(value)
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "error", "critical", "serious":
		return domain.SeverityError
	case "warning", "warn", "moderate":
		return domain.SeverityWarning
	default:
		return domain.SeverityNotice
	}
}

// deriveScore computes a score from issue counts when the analyzer did not
// report one: 100 minus 2.5 per error and 1.0 per warning, floored at 0
func deriveScore(issues []domain.Issue) float64 {
	score := 100.0
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityError:
			score -= errorDeduction
		case domain.SeverityWarning:
			score -= warningDeduction
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// toFloat coerces the numeric shapes analyzers actually emit: JSON numbers,
// Go ints, json.Number, and numeric strings
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toString returns the value as a non-empty trimmed string
func toString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
