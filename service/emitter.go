package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ludo-technologies/siteaudit/domain"
)

// EmitterOptions carries the per-run rendering knobs shared by the emitters
type EmitterOptions struct {
	// Pretty enables indented structured output (JSON)
	Pretty bool

	// MetricsOnly projects structured output down to identifying fields
	// plus scores and grades
	MetricsOnly bool

	// MetricsCategories limits the projection; empty means all categories
	MetricsCategories []domain.Category

	// IncludePageDetail expands per-page issue tables in hypertext output
	IncludePageDetail bool

	// IncludeBadge renders the certificate badge in hypertext output
	IncludeBadge bool
}

// NewEmitter returns the emitter for a format. Unknown formats are rejected
// here so the pipeline fails before any file is created.
func NewEmitter(format domain.OutputFormat, opts EmitterOptions) (domain.ReportEmitter, error) {
	switch format {
	case domain.OutputFormatJSON:
		return NewJSONEmitter(opts), nil
	case domain.OutputFormatYAML:
		return NewYAMLEmitter(opts), nil
	case domain.OutputFormatCSV:
		return NewCSVEmitter(), nil
	case domain.OutputFormatMarkdown:
		return NewMarkdownEmitter(), nil
	case domain.OutputFormatHTML:
		return NewHTMLEmitter(opts), nil
	default:
		return nil, domain.NewUnsupportedFormatError(string(format))
	}
}

// ReportFileName returns the artifact name for a format, e.g. report.html
func ReportFileName(format domain.OutputFormat) string {
	return "report." + format.Extension()
}

// WriteReportFile renders the record with the format's emitter and writes it
// under dir. Emission and write failures both surface as EMISSION_FAILED;
// nothing is swallowed.
func WriteReportFile(record *domain.AuditRunRecord, format domain.OutputFormat, dir string, opts EmitterOptions) (string, error) {
	emitter, err := NewEmitter(format, opts)
	if err != nil {
		return "", err
	}

	data, err := emitter.Emit(record)
	if err != nil {
		return "", domain.NewEmissionError(fmt.Sprintf("rendering %s report", format), err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.NewEmissionError(fmt.Sprintf("creating output directory %s", dir), err)
	}

	path := filepath.Join(dir, ReportFileName(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", domain.NewEmissionError(fmt.Sprintf("writing %s", path), err)
	}
	return path, nil
}

// formatScore renders a score without trailing zero noise (90, 87.5)
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
