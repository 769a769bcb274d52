package service

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/siteaudit/domain"
)

// JSONEmitter renders the full record, or its metrics projection, as JSON.
// encoding/json sorts map keys, so output is byte-identical across runs.
type JSONEmitter struct {
	opts EmitterOptions
}

// NewJSONEmitter creates a JSON emitter
func NewJSONEmitter(opts EmitterOptions) *JSONEmitter {
	return &JSONEmitter{opts: opts}
}

// Emit implements domain.ReportEmitter
func (e *JSONEmitter) Emit(record *domain.AuditRunRecord) ([]byte, error) {
	payload := projectRecord(record, e.opts)

	var data []byte
	var err error
	if e.opts.Pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, domain.NewOutputError("encoding JSON report", err)
	}
	return append(data, '\n'), nil
}

// YAMLEmitter renders the record as YAML. yaml.v3 sorts map keys during
// encoding, so output is deterministic like the JSON emitter's.
type YAMLEmitter struct {
	opts EmitterOptions
}

// NewYAMLEmitter creates a YAML emitter
func NewYAMLEmitter(opts EmitterOptions) *YAMLEmitter {
	return &YAMLEmitter{opts: opts}
}

// Emit implements domain.ReportEmitter
func (e *YAMLEmitter) Emit(record *domain.AuditRunRecord) ([]byte, error) {
	data, err := yaml.Marshal(projectRecord(record, e.opts))
	if err != nil {
		return nil, domain.NewOutputError("encoding YAML report", err)
	}
	return data, nil
}

// metricsPage is the projected page shape: identity plus scores and grades
type metricsPage struct {
	URL        string                            `json:"url" yaml:"url"`
	Title      string                            `json:"title,omitempty" yaml:"title,omitempty"`
	Status     domain.PageStatus                 `json:"status" yaml:"status"`
	DurationMs int64                             `json:"duration_ms" yaml:"duration_ms"`
	Categories map[domain.Category]metricsResult `json:"categories,omitempty" yaml:"categories,omitempty"`
}

type metricsResult struct {
	Score float64 `json:"score" yaml:"score"`
	Grade string  `json:"grade" yaml:"grade"`
}

type metricsRecord struct {
	Metadata domain.RunMetadata `json:"metadata" yaml:"metadata"`
	Summary  domain.Summary     `json:"summary" yaml:"summary"`
	Pages    []metricsPage      `json:"pages" yaml:"pages"`
	Warnings []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// projectRecord returns the record itself, or its metrics projection when
// requested. The projection strips issues and keeps only scores and grades
// for the selected categories.
func projectRecord(record *domain.AuditRunRecord, opts EmitterOptions) any {
	if !opts.MetricsOnly {
		return record
	}

	selected := opts.MetricsCategories
	if len(selected) == 0 {
		selected = domain.Categories
	}

	pages := make([]metricsPage, len(record.Pages))
	for i, page := range record.Pages {
		projected := metricsPage{
			URL:        page.URL,
			Title:      page.Title,
			Status:     page.Status,
			DurationMs: page.DurationMs,
		}
		for _, category := range selected {
			result, ok := page.Result(category)
			if !ok {
				continue
			}
			if projected.Categories == nil {
				projected.Categories = make(map[domain.Category]metricsResult)
			}
			projected.Categories[category] = metricsResult{Score: result.Score, Grade: result.Grade}
		}
		pages[i] = projected
	}

	return metricsRecord{
		Metadata: record.Metadata,
		Summary:  record.Summary,
		Pages:    pages,
		Warnings: record.Warnings,
	}
}
