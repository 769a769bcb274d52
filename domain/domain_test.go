package domain

import (
	"errors"
	"math"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{Code: "TEST_ERROR", Message: "Test message"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid input", NewInvalidInputError("bad input", nil), ErrCodeInvalidInput},
		{"incomplete data", NewIncompleteDataError("negative duration"), ErrCodeIncompleteData},
		{"missing analysis", NewMissingAnalysisError("accessibility absent"), ErrCodeMissingAnalysis},
		{"emission failed", NewEmissionError("write failed", errors.New("eacces")), ErrCodeEmissionFailed},
		{"output error", NewOutputError("render failed", nil), ErrCodeOutputError},
		{"config error", NewConfigError("invalid config", nil), ErrCodeConfigError},
		{"unsupported format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domainErr, ok := tt.err.(DomainError)
			if !ok {
				t.Fatal("Should return DomainError type")
			}
			if domainErr.Code != tt.wantCode {
				t.Errorf("Expected code '%s', got '%s'", tt.wantCode, domainErr.Code)
			}
		})
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/results.json", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/results.json" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

// Constant tests

func TestCategory_Constants(t *testing.T) {
	categories := map[Category]string{
		CategoryAccessibility:      "accessibility",
		CategoryPerformance:        "performance",
		CategorySEO:                "seo",
		CategoryContentWeight:      "content_weight",
		CategoryMobileFriendliness: "mobile_friendliness",
	}

	for category, expected := range categories {
		if string(category) != expected {
			t.Errorf("Category %s should equal '%s'", category, expected)
		}
		if !category.IsValid() {
			t.Errorf("Category %s should be valid", category)
		}
	}

	if Category("security").IsValid() {
		t.Error("unknown category should not be valid")
	}
}

func TestPageStatus_Tested(t *testing.T) {
	tests := []struct {
		status PageStatus
		tested bool
	}{
		{PageStatusPassed, true},
		{PageStatusFailed, true},
		{PageStatusCrashed, true},
		{PageStatusSkipped, false},
		{PageStatus("bogus"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Tested(); got != tt.tested {
			t.Errorf("Tested(%s) = %v, want %v", tt.status, got, tt.tested)
		}
	}
}

func TestOutputFormat_Extension(t *testing.T) {
	if got := OutputFormatMarkdown.Extension(); got != "md" {
		t.Errorf("markdown extension = %s, want md", got)
	}
	if got := OutputFormatJSON.Extension(); got != "json" {
		t.Errorf("json extension = %s, want json", got)
	}
}

// Scoring tests

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{79, "C"},
		{70, "C"},
		{69.5, "D"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := GradeForScore(tt.score); got != tt.want {
			t.Errorf("GradeForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestGradeForScore_Monotonic(t *testing.T) {
	// Higher scores must never map to a worse grade
	rank := map[string]int{"A": 5, "B": 4, "C": 3, "D": 2, "F": 1}

	prev := "F"
	for score := 0.0; score <= 100.0; score += 0.5 {
		grade := GradeForScore(score)
		if rank[grade] < rank[prev] {
			t.Fatalf("grade dropped from %s to %s at score %v", prev, grade, score)
		}
		prev = grade
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, TierPlatinum},
		{95, TierPlatinum},
		{94.9, TierGold},
		{85, TierGold},
		{84, TierSilver},
		{70, TierSilver},
		{69, TierBronze},
		{50, TierBronze},
		{49.9, TierNeedsImprovement},
		{0, TierNeedsImprovement},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCategoryWeights_SumToOne(t *testing.T) {
	var sum float64
	for _, category := range Categories {
		weight, ok := CategoryWeights[category]
		if !ok {
			t.Fatalf("no weight defined for %s", category)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestPageRecord_Composite(t *testing.T) {
	page := PageRecord{
		URL:    "https://example.com",
		Status: PageStatusPassed,
		Categories: map[Category]CategoryResult{
			CategoryAccessibility: {Category: CategoryAccessibility, Score: 90},
			CategoryPerformance:   {Category: CategoryPerformance, Score: 80},
		},
	}

	// (90*0.35 + 80*0.25) / (0.35+0.25) = 85.0: the two absent-category
	// weights drop out of the denominator instead of counting as zero
	composite, ok := page.Composite()
	if !ok {
		t.Fatal("page with data should have a composite")
	}
	if math.Abs(composite-85.0) > 1e-9 {
		t.Errorf("composite = %v, want 85.0", composite)
	}
}

func TestPageRecord_Composite_WeightRedistribution(t *testing.T) {
	// All categories at the same score must composite to that score no
	// matter which subset is present
	full := map[Category]CategoryResult{}
	for _, category := range Categories {
		full[category] = CategoryResult{Category: category, Score: 73}
	}
	withoutMobile := map[Category]CategoryResult{}
	for _, category := range Categories {
		if category == CategoryMobileFriendliness {
			continue
		}
		withoutMobile[category] = CategoryResult{Category: category, Score: 73}
	}

	for name, categories := range map[string]map[Category]CategoryResult{
		"all five": full, "four": withoutMobile,
	} {
		page := PageRecord{Categories: categories}
		composite, ok := page.Composite()
		if !ok {
			t.Fatalf("%s: expected composite", name)
		}
		if math.Abs(composite-73) > 1e-9 {
			t.Errorf("%s: composite = %v, want 73", name, composite)
		}
	}
}

func TestPageRecord_Composite_NoData(t *testing.T) {
	page := PageRecord{URL: "https://example.com", Status: PageStatusSkipped}
	if _, ok := page.Composite(); ok {
		t.Error("page without categories should have no composite")
	}
}

func TestPageRecord_IssueCount(t *testing.T) {
	page := PageRecord{
		Categories: map[Category]CategoryResult{
			CategoryAccessibility: {
				Category: CategoryAccessibility,
				Score:    80,
				Issues: []Issue{
					{Severity: SeverityError, Message: "missing alt"},
					{Severity: SeverityError, Message: "missing label"},
					{Severity: SeverityNotice, Message: "landmark hint"},
				},
			},
			CategorySEO: {
				Category: CategorySEO,
				Score:    90,
				Issues:   []Issue{{Severity: SeverityWarning, Message: "short description"}},
			},
		},
	}

	if got := page.IssueCount(SeverityError); got != 2 {
		t.Errorf("errors = %d, want 2", got)
	}
	if got := page.IssueCount(SeverityWarning); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
	if got := page.IssueCount(SeverityNotice); got != 1 {
		t.Errorf("notices = %d, want 1", got)
	}
}

// Warning tests

func TestWarning_String(t *testing.T) {
	w := Warning{
		URL:      "https://example.com/about",
		Category: CategoryPerformance,
		Field:    "score",
		Reason:   "value 140 outside [0,100]",
	}
	want := "page https://example.com/about: performance.score: value 140 outside [0,100]"
	if w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}

	runLevel := Warning{Field: "status", Reason: "unknown tag \"exploded\""}
	if runLevel.String() != "status: unknown tag \"exploded\"" {
		t.Errorf("unexpected run-level rendering: %q", runLevel.String())
	}
}
