package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/siteaudit/app"
	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/internal/config"
	"github.com/ludo-technologies/siteaudit/internal/constants"
	"github.com/ludo-technologies/siteaudit/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore   float64
	checkMaxErrors  int
	checkRequired   []string
	checkJSON       bool
	checkConfigPath string
)

// checkOutput is the machine-readable verdict printed with --json
type checkOutput struct {
	Passed          bool     `json:"passed"`
	OverallScore    float64  `json:"overall_score"`
	OverallGrade    string   `json:"overall_grade"`
	CertificateTier string   `json:"certificate_tier"`
	TotalErrors     int      `json:"total_errors"`
	TestedPages     int      `json:"tested_pages"`
	Completeness    float64  `json:"completeness"`
	Failures        []string `json:"failures,omitempty"`
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <results.json>",
		Short: "Threshold check for CI/CD pipelines",
		Long: `Score a crawl-results file and compare it against thresholds.
No report files are written.

Exit codes:
  0 - All checks pass
  1 - Threshold(s) violated
  2 - Run error (file not found, malformed input, etc.)

Examples:
  # Fail below an overall score of 70
  siteaudit check results.json

  # Stricter gate with required analyses
  siteaudit check --min-score 85 --require accessibility,performance results.json

  # JSON verdict for machine parsing
  siteaudit check --json results.json`,
		Args:          cobra.ExactArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Float64Var(&checkMinScore, "min-score", 70,
		"Minimum overall score required to pass")
	cmd.Flags().IntVar(&checkMaxErrors, "max-errors", -1,
		"Maximum error-severity findings allowed (-1 = no limit)")
	cmd.Flags().StringSliceVar(&checkRequired, "require", nil,
		"Categories required on every tested page")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output the verdict as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(checkConfigPath)
	if err != nil {
		return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
	}

	required := cfg.RequiredCategories()
	if cmd.Flags().Changed("require") {
		required = toCategories(checkRequired)
	}

	record, verdict, err := runCheckPipeline(cmd.Context(), args[0], cfg.Normalize.Jobs, required)
	if err != nil {
		return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
	}

	var failures []string
	if record.Summary.OverallScore < checkMinScore {
		failures = append(failures,
			fmt.Sprintf("overall score %.1f below minimum %.1f", record.Summary.OverallScore, checkMinScore))
	}
	if checkMaxErrors >= 0 && record.Summary.TotalErrors > checkMaxErrors {
		failures = append(failures,
			fmt.Sprintf("%d error findings exceed the limit of %d", record.Summary.TotalErrors, checkMaxErrors))
	}
	for _, issue := range verdict.Warnings {
		if issue.Code == domain.ErrCodeMissingAnalysis {
			failures = append(failures, issue.String())
		}
	}

	if checkJSON {
		out := checkOutput{
			Passed:          len(failures) == 0,
			OverallScore:    record.Summary.OverallScore,
			OverallGrade:    record.Summary.OverallGrade,
			CertificateTier: record.Summary.CertificateTier,
			TotalErrors:     record.Summary.TotalErrors,
			TestedPages:     record.Summary.TestedPages,
			Completeness:    verdict.Completeness,
			Failures:        failures,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
		}
	} else {
		fmt.Printf("Overall: %.1f (%s), certificate %s, %d pages tested\n",
			record.Summary.OverallScore, record.Summary.OverallGrade,
			record.Summary.CertificateTier, record.Summary.TestedPages)
		for _, failure := range failures {
			fmt.Printf("FAIL: %s\n", failure)
		}
	}

	if len(failures) > 0 {
		return &CheckExitError{Code: constants.ExitCheckFailed}
	}
	return nil
}

// runCheckPipeline runs the pipeline up to validation; nothing is emitted.
// The tolerant policy is used so threshold evaluation sees the full record.
func runCheckPipeline(ctx context.Context, inputPath string, jobs int, required []domain.Category) (*domain.AuditRunRecord, domain.ValidationResult, error) {
	raw, err := app.LoadRawRun(inputPath)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	runner := service.NewNormalizeRunner(service.NewNormalizer(), jobs)
	pages, warnings, err := runner.Run(ctx, raw.Pages)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	record := &domain.AuditRunRecord{
		Pages:    pages,
		Warnings: domain.WarningStrings(warnings),
	}

	verdict := service.NewValidator().Validate(record, domain.PolicyTolerant, required)
	record.Summary = service.NewScoringEngine().Score(pages)
	return record, verdict, nil
}
