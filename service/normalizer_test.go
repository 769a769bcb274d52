package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/service"
)

func TestNormalize_CanonicalPage(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"title":       "Home",
		"status":      "passed",
		"duration_ms": float64(423),
		"accessibility": map[string]any{
			"score": float64(90),
			"issues": []any{
				map[string]any{
					"severity":    "error",
					"code":        "1.1.1",
					"message":     "Image missing alt text",
					"selector":    "img.hero",
					"remediation": "Add an alt attribute",
				},
			},
		},
		"performance": map[string]any{"score": float64(80)},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	require.Empty(t, warnings)
	assert.Equal(t, "https://example.com/", page.URL)
	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, domain.PageStatusPassed, page.Status)
	assert.Equal(t, int64(423), page.DurationMs)
	require.Len(t, page.Categories, 2)

	acc := page.Categories[domain.CategoryAccessibility]
	assert.Equal(t, 90.0, acc.Score)
	assert.Equal(t, "A", acc.Grade)
	require.Len(t, acc.Issues, 1)
	assert.Equal(t, domain.SeverityError, acc.Issues[0].Severity)
	assert.Equal(t, "1.1.1", acc.Issues[0].Code)
	assert.Equal(t, "img.hero", acc.Issues[0].Selector)
	assert.Equal(t, "Add an alt attribute", acc.Issues[0].Remediation)
}

func TestNormalize_NumericCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float", 87.5, 87.5},
		{"int", 92, 92},
		{"numeric string", "73", 73},
		{"padded string", " 60.5 ", 60.5},
	}

	n := service.NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := domain.RawPage{
				"url":         "https://example.com/",
				"status":      "passed",
				"duration_ms": 1,
				"seo":         map[string]any{"score": tt.value},
			}
			page, _ := n.Normalize(raw)
			result, ok := page.Result(domain.CategorySEO)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestNormalize_NonNumericScoreOmitted(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "passed",
		"duration_ms": 1,
		"performance": map[string]any{"score": "fast"},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	_, ok := page.Result(domain.CategoryPerformance)
	assert.False(t, ok, "uninterpretable score must omit the category, not guess")
	require.NotEmpty(t, warnings)
	assert.Equal(t, domain.CategoryPerformance, warnings[0].Category)
}

func TestNormalize_OutOfRangeScoreOmitted(t *testing.T) {
	n := service.NewNormalizer()
	for _, score := range []float64{-5, 140} {
		raw := domain.RawPage{
			"url":         "https://example.com/",
			"status":      "passed",
			"duration_ms": 1,
			"seo":         map[string]any{"score": score},
		}
		page, warnings := n.Normalize(raw)

		_, ok := page.Result(domain.CategorySEO)
		assert.False(t, ok, "score %v must not be clamped into range", score)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Reason, "outside [0,100]")
	}
}

func TestNormalize_LegacyValueField(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "passed",
		"duration_ms": 1,
		"seo":         map[string]any{"value": float64(70)},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	result, ok := page.Result(domain.CategorySEO)
	require.True(t, ok)
	assert.Equal(t, 70.0, result.Score)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "legacy")
}

func TestNormalize_CanonicalScoreWinsOverLegacy(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "passed",
		"duration_ms": 1,
		"seo":         map[string]any{"score": float64(85), "value": float64(40)},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	result, ok := page.Result(domain.CategorySEO)
	require.True(t, ok)
	assert.Equal(t, 85.0, result.Score)
	assert.Empty(t, warnings, "legacy field is ignored when the canonical one is present")
}

func TestNormalize_StringIssuesBecomeNotices(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "passed",
		"duration_ms": 1,
		"accessibility": map[string]any{
			"score":  float64(95),
			"issues": []any{"heading levels skip from h1 to h3"},
		},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	require.Empty(t, warnings)
	result, _ := page.Result(domain.CategoryAccessibility)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.SeverityNotice, result.Issues[0].Severity)
	assert.Equal(t, "heading levels skip from h1 to h3", result.Issues[0].Message)
}

func TestNormalize_SeverityAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Severity
	}{
		{"error", domain.SeverityError},
		{"critical", domain.SeverityError},
		{"serious", domain.SeverityError},
		{"warning", domain.SeverityWarning},
		{"moderate", domain.SeverityWarning},
		{"minor", domain.SeverityNotice},
		{"", domain.SeverityNotice},
		{"whatever", domain.SeverityNotice},
	}

	n := service.NewNormalizer()
	for _, tt := range tests {
		raw := domain.RawPage{
			"url":         "https://example.com/",
			"status":      "passed",
			"duration_ms": 1,
			"seo": map[string]any{
				"score":  float64(88),
				"issues": []any{map[string]any{"severity": tt.raw, "message": "m"}},
			},
		}
		page, _ := n.Normalize(raw)
		result, _ := page.Result(domain.CategorySEO)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, tt.want, result.Issues[0].Severity, "severity tag %q", tt.raw)
	}
}

func TestNormalize_UnknownStatusBecomesCrashed(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "exploded",
		"duration_ms": 1,
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	assert.Equal(t, domain.PageStatusCrashed, page.Status)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "unknown tag")
}

func TestNormalize_SkippedPageDropsCategoryBags(t *testing.T) {
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "skipped",
		"duration_ms": 0,
		"seo":         map[string]any{"score": float64(50)},
	}

	page, _ := service.NewNormalizer().Normalize(raw)

	assert.Equal(t, domain.PageStatusSkipped, page.Status)
	assert.False(t, page.HasData())
}

func TestNormalize_DerivedScoreFromIssues(t *testing.T) {
	// Two errors and one warning: 100 - 2*2.5 - 1.0 = 94
	raw := domain.RawPage{
		"url":         "https://example.com/",
		"status":      "passed",
		"duration_ms": 1,
		"accessibility": map[string]any{
			"issues": []any{
				map[string]any{"severity": "error", "message": "a"},
				map[string]any{"severity": "error", "message": "b"},
				map[string]any{"severity": "warning", "message": "c"},
			},
		},
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	result, ok := page.Result(domain.CategoryAccessibility)
	require.True(t, ok)
	assert.Equal(t, 94.0, result.Score)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "derived")
}

func TestNormalize_LegacyAliasKeysAndBareNumbers(t *testing.T) {
	raw := domain.RawPage{
		"url":                "https://example.com/",
		"status":             "passed",
		"duration_ms":        1,
		"mobileFriendliness": map[string]any{"score": float64(77)},
		"contentWeight":      float64(66),
	}

	page, warnings := service.NewNormalizer().Normalize(raw)

	require.Empty(t, warnings)
	mobile, ok := page.Result(domain.CategoryMobileFriendliness)
	require.True(t, ok)
	assert.Equal(t, 77.0, mobile.Score)
	weight, ok := page.Result(domain.CategoryContentWeight)
	require.True(t, ok)
	assert.Equal(t, 66.0, weight.Score)
}

func TestNormalize_MissingDurationAndURL(t *testing.T) {
	page, warnings := service.NewNormalizer().Normalize(domain.RawPage{"status": "passed"})

	assert.Empty(t, page.URL)
	assert.Equal(t, int64(0), page.DurationMs)
	assert.Len(t, warnings, 2)
}
