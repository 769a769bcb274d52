package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/internal/version"
	"github.com/ludo-technologies/siteaudit/service"
)

// ReportResponse is the outcome of one pipeline run
type ReportResponse struct {
	// Record is the finalized audit record that was emitted
	Record *domain.AuditRunRecord

	// Validation is the validator's verdict, including completeness
	Validation domain.ValidationResult

	// OutputPaths lists the report files written, in request format order.
	// Empty when the report went to a writer instead.
	OutputPaths []string
}

// ReportUseCase orchestrates the audit pipeline: load, normalize, score,
// validate, emit
type ReportUseCase struct {
	runner    domain.NormalizeRunner
	validator domain.Validator
	scorer    domain.ScoringEngine
	progress  domain.ProgressManager
}

// NewReportUseCase creates a use case with the default service wiring
func NewReportUseCase(jobs int) *ReportUseCase {
	return &ReportUseCase{
		runner:    service.NewNormalizeRunner(service.NewNormalizer(), jobs),
		validator: service.NewValidator(),
		scorer:    service.NewScoringEngine(),
		progress:  service.NewNoOpProgressManager(),
	}
}

// Execute performs the complete report workflow
func (uc *ReportUseCase) Execute(ctx context.Context, req domain.ReportRequest) (*ReportResponse, error) {
	if err := uc.validateRequest(&req); err != nil {
		return nil, err
	}

	raw, err := LoadRawRun(req.InputPath)
	if err != nil {
		return nil, err
	}

	records, warnings, err := uc.runner.Run(ctx, raw.Pages)
	if err != nil {
		return nil, err
	}

	record := &domain.AuditRunRecord{
		Metadata: domain.RunMetadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			SourceURL:   raw.SourceURL,
			DurationMs:  raw.DurationMs,
			ToolVersion: version.GetVersion(),
		},
		Pages:    records,
		Warnings: domain.WarningStrings(warnings),
	}
	// Validation is the single gate; scoring and emission only ever see
	// records that passed it
	verdict := uc.validator.Validate(record, req.Policy, req.RequiredCategories)
	if !verdict.Valid {
		first := verdict.Errors[0]
		return nil, domain.NewDomainError(first.Code,
			fmt.Sprintf("validation failed with %d problem(s), first: %s", len(verdict.Errors), first.Message), nil)
	}
	// Downgraded problems travel with the record so every emitted report
	// shows them
	for _, issue := range verdict.Warnings {
		record.Warnings = append(record.Warnings, issue.String())
	}

	record.Summary = uc.scorer.Score(record.Pages)

	paths, err := uc.emit(record, req)
	if err != nil {
		return nil, err
	}

	return &ReportResponse{Record: record, Validation: verdict, OutputPaths: paths}, nil
}

// emit renders the record into every requested format
func (uc *ReportUseCase) emit(record *domain.AuditRunRecord, req domain.ReportRequest) ([]string, error) {
	opts := service.EmitterOptions{
		Pretty:            req.Pretty,
		MetricsOnly:       req.MetricsOnly,
		MetricsCategories: req.MetricsCategories,
		IncludePageDetail: req.IncludePageDetail,
		IncludeBadge:      req.IncludeBadge,
	}

	if req.OutputWriter != nil {
		emitter, err := service.NewEmitter(req.OutputFormats[0], opts)
		if err != nil {
			return nil, err
		}
		data, err := emitter.Emit(record)
		if err != nil {
			return nil, domain.NewEmissionError(fmt.Sprintf("rendering %s report", req.OutputFormats[0]), err)
		}
		if _, err := req.OutputWriter.Write(data); err != nil {
			return nil, domain.NewEmissionError("writing report", err)
		}
		return nil, nil
	}

	task := uc.progress.StartTask("Writing reports", len(req.OutputFormats))
	defer task.Complete()

	paths := make([]string, 0, len(req.OutputFormats))
	for _, format := range req.OutputFormats {
		task.Describe(fmt.Sprintf("Writing %s report", format))
		path, err := service.WriteReportFile(record, format, req.OutputDir, opts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
		task.Increment(1)
	}
	return paths, nil
}

// validateRequest rejects requests the pipeline cannot run and fills in
// defaults for omitted knobs
func (uc *ReportUseCase) validateRequest(req *domain.ReportRequest) error {
	if req.InputPath == "" {
		return domain.NewInvalidInputError("no input file specified", nil)
	}
	if len(req.OutputFormats) == 0 {
		return domain.NewInvalidInputError("no output formats specified", nil)
	}
	for _, format := range req.OutputFormats {
		if !format.IsValid() {
			return domain.NewUnsupportedFormatError(string(format))
		}
	}
	if req.OutputWriter != nil && len(req.OutputFormats) > 1 {
		return domain.NewInvalidInputError("writer output supports exactly one format", nil)
	}
	if req.OutputWriter == nil && req.OutputDir == "" {
		return domain.NewInvalidInputError("no output directory specified", nil)
	}
	if req.Policy == "" {
		req.Policy = domain.PolicyTolerant
	}
	if !req.Policy.IsValid() {
		return domain.NewInvalidInputError(fmt.Sprintf("invalid validation policy %q", req.Policy), nil)
	}
	for _, category := range req.RequiredCategories {
		if !category.IsValid() {
			return domain.NewInvalidInputError(fmt.Sprintf("unknown category %q", category), nil)
		}
	}
	for _, category := range req.MetricsCategories {
		if !category.IsValid() {
			return domain.NewInvalidInputError(fmt.Sprintf("unknown category %q", category), nil)
		}
	}
	if req.Jobs < 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("jobs must not be negative, got %d", req.Jobs), nil)
	}
	return nil
}

// ReportUseCaseBuilder provides a builder pattern for creating ReportUseCase
type ReportUseCaseBuilder struct {
	runner    domain.NormalizeRunner
	validator domain.Validator
	scorer    domain.ScoringEngine
	progress  domain.ProgressManager
}

// NewReportUseCaseBuilder creates a new builder
func NewReportUseCaseBuilder() *ReportUseCaseBuilder {
	return &ReportUseCaseBuilder{}
}

// WithRunner sets the normalize runner
func (b *ReportUseCaseBuilder) WithRunner(runner domain.NormalizeRunner) *ReportUseCaseBuilder {
	b.runner = runner
	return b
}

// WithValidator sets the validator
func (b *ReportUseCaseBuilder) WithValidator(validator domain.Validator) *ReportUseCaseBuilder {
	b.validator = validator
	return b
}

// WithScoringEngine sets the scoring engine
func (b *ReportUseCaseBuilder) WithScoringEngine(scorer domain.ScoringEngine) *ReportUseCaseBuilder {
	b.scorer = scorer
	return b
}

// WithProgress sets the progress manager
func (b *ReportUseCaseBuilder) WithProgress(progress domain.ProgressManager) *ReportUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the ReportUseCase, falling back to defaults for anything unset
func (b *ReportUseCaseBuilder) Build() *ReportUseCase {
	uc := NewReportUseCase(0)
	if b.runner != nil {
		uc.runner = b.runner
	}
	if b.validator != nil {
		uc.validator = b.validator
	}
	if b.scorer != nil {
		uc.scorer = b.scorer
	}
	if b.progress != nil {
		uc.progress = b.progress
	}
	return uc
}
