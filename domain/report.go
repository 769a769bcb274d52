package domain

import (
	"context"
	"fmt"
	"io"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatCSV      OutputFormat = "csv"
	OutputFormatMarkdown OutputFormat = "markdown"
	OutputFormatHTML     OutputFormat = "html"
)

// OutputFormats lists all supported formats in canonical order
var OutputFormats = []OutputFormat{
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatCSV,
	OutputFormatMarkdown,
	OutputFormatHTML,
}

// IsValid reports whether f is a supported format
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats {
		if f == known {
			return true
		}
	}
	return false
}

// Extension returns the file extension for the format, without the dot
func (f OutputFormat) Extension() string {
	if f == OutputFormatMarkdown {
		return "md"
	}
	return string(f)
}

// ValidationPolicy selects how the validator treats problems
type ValidationPolicy string

const (
	// PolicyFailFast turns structural violations and missing required
	// categories into errors that abort the pipeline before scoring
	PolicyFailFast ValidationPolicy = "fail-fast"

	// PolicyTolerant downgrades the same checks to warnings; the record
	// proceeds to emission carrying the warning list
	PolicyTolerant ValidationPolicy = "tolerant"
)

// IsValid reports whether p is a known policy
func (p ValidationPolicy) IsValid() bool {
	return p == PolicyFailFast || p == PolicyTolerant
}

// RawPage is one page's output from the crawling/analysis layer: a loosely
// structured bag whose shape varies across analyzer versions. The normalizer
// is the only component that touches it.
type RawPage map[string]any

// RawRun is the crawl-results envelope consumed by the pipeline
type RawRun struct {
	SourceURL  string    `json:"source_url"`
	DurationMs int64     `json:"duration_ms"`
	Pages      []RawPage `json:"pages"`
}

// Warning records a raw value the normalizer could not interpret. The
// affected field or category is omitted from the typed record instead of
// being populated with guessed data.
type Warning struct {
	URL      string
	Category Category
	Field    string
	Reason   string
}

// String renders the warning in the form carried into emitted artifacts
func (w Warning) String() string {
	location := w.Field
	if w.Category != "" {
		location = fmt.Sprintf("%s.%s", w.Category, w.Field)
	}
	if w.URL == "" {
		return fmt.Sprintf("%s: %s", location, w.Reason)
	}
	return fmt.Sprintf("page %s: %s: %s", w.URL, location, w.Reason)
}

// WarningStrings converts warnings to the string form stored on the record
func WarningStrings(warnings []Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

// ValidationIssue is a single problem found by the validator
type ValidationIssue struct {
	// Code is one of the domain error codes (INCOMPLETE_DATA, MISSING_ANALYSIS)
	Code string `json:"code"`

	// Severity is error under fail-fast, warning under tolerant
	Severity Severity `json:"severity"`

	// URL identifies the offending page; empty for run-level problems
	URL string `json:"url,omitempty"`

	Message string `json:"message"`
}

// String renders the issue for logs and emitted warning lists
func (v ValidationIssue) String() string {
	if v.URL == "" {
		return fmt.Sprintf("[%s] %s", v.Code, v.Message)
	}
	return fmt.Sprintf("[%s] page %s: %s", v.Code, v.URL, v.Message)
}

// ValidationResult is the validator's verdict on a record
type ValidationResult struct {
	// Valid is false only when errors are present, which can happen only
	// under the fail-fast policy
	Valid bool `json:"valid"`

	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`

	// Completeness is the advisory run-level completeness score in [0,100].
	// It never gates emission under either policy.
	Completeness float64 `json:"completeness"`

	// PageCompleteness maps page URL to its completeness score
	PageCompleteness map[string]float64 `json:"page_completeness,omitempty"`
}

// ReportRequest carries the caller-facing control surface for one pipeline run
type ReportRequest struct {
	// InputPath is the crawl-results file to normalize
	InputPath string

	// Output configuration
	OutputFormats []OutputFormat
	OutputDir     string
	OutputWriter  io.Writer // used instead of OutputDir when set (single format)
	Pretty        bool

	// Validation
	Policy             ValidationPolicy
	RequiredCategories []Category

	// Structured-data projection: keep identifying fields plus scores and
	// grades for the chosen categories only (all categories when empty)
	MetricsOnly       bool
	MetricsCategories []Category

	// Hypertext options
	IncludePageDetail bool
	IncludeBadge      bool

	// Jobs bounds the parallel normalization fan-out; 0 means NumCPU
	Jobs int

	ConfigPath string
}

// Normalizer converts one raw page into a typed PageRecord. It never fails;
// uninterpretable values become warnings and omissions.
type Normalizer interface {
	Normalize(raw RawPage) (PageRecord, []Warning)
}

// NormalizeRunner fans page normalization out across workers and reassembles
// results in input order
type NormalizeRunner interface {
	Run(ctx context.Context, pages []RawPage) ([]PageRecord, []Warning, error)
}

// Validator checks structural invariants and completeness on a typed record.
// It never mutates the record.
type Validator interface {
	Validate(record *AuditRunRecord, policy ValidationPolicy, required []Category) ValidationResult
}

// ScoringEngine computes the run summary as a pure function of the page list
type ScoringEngine interface {
	Score(pages []PageRecord) Summary
}

// ReportEmitter renders a validated record into one output format. Emitters
// are pure: no I/O, no mutation of the record, byte-identical output for
// identical input.
type ReportEmitter interface {
	Emit(record *AuditRunRecord) ([]byte, error)
}

// ProgressManager handles progress tracking for long operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
