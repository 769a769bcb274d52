package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/siteaudit/app"
	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/internal/config"
	"github.com/ludo-technologies/siteaudit/internal/constants"
	"github.com/ludo-technologies/siteaudit/service"
)

var (
	reportFormats     []string
	reportOutputDir   string
	reportStdout      bool
	reportPretty      bool
	reportPolicy      string
	reportRequired    []string
	reportMetricsOnly bool
	reportMetrics     []string
	reportPageDetail  bool
	reportJobs        int
	reportConfigPath  string
	reportNoProgress  bool
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <results.json>",
		Short: "Generate audit reports from crawl results",
		Long: `Normalize a crawl-results file, score it, validate it, and emit reports.

Examples:
  # HTML report with defaults
  siteaudit report results.json

  # Several formats at once
  siteaudit report -f json,csv,html results.json

  # Machine output to stdout
  siteaudit report -f json --stdout results.json

  # Abort on structural problems instead of downgrading them
  siteaudit report --policy fail-fast --require accessibility results.json`,
		Args:          cobra.ExactArgs(1),
		RunE:          runReport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringSliceVarP(&reportFormats, "format", "f", nil,
		"Report formats: json, yaml, csv, markdown, html")
	cmd.Flags().StringVarP(&reportOutputDir, "output-dir", "o", "",
		"Directory for report artifacts")
	cmd.Flags().BoolVar(&reportStdout, "stdout", false,
		"Write the report to stdout (single format only)")
	cmd.Flags().BoolVar(&reportPretty, "pretty", true,
		"Indent structured output")
	cmd.Flags().StringVar(&reportPolicy, "policy", "",
		"Validation policy: tolerant or fail-fast")
	cmd.Flags().StringSliceVar(&reportRequired, "require", nil,
		"Categories required on every tested page")
	cmd.Flags().BoolVar(&reportMetricsOnly, "metrics-only", false,
		"Project structured output down to scores and grades")
	cmd.Flags().StringSliceVar(&reportMetrics, "metrics", nil,
		"Categories kept by --metrics-only (default all)")
	cmd.Flags().BoolVar(&reportPageDetail, "page-detail", true,
		"Expand per-page issue lists in HTML output")
	cmd.Flags().IntVarP(&reportJobs, "jobs", "j", 0,
		"Parallel normalization workers (0 = NumCPU)")
	cmd.Flags().StringVarP(&reportConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVar(&reportNoProgress, "no-progress", false,
		"Disable progress bars")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: constants.ToolName})

	cfg, err := config.LoadConfig(reportConfigPath)
	if err != nil {
		return err
	}

	req := buildReportRequest(cmd, cfg, args[0])
	if reportStdout {
		if len(req.OutputFormats) != 1 {
			return domain.NewInvalidInputError("--stdout requires exactly one format", nil)
		}
		req.OutputWriter = os.Stdout
	}

	progress := service.NewProgressManager(!reportStdout && !reportNoProgress)
	defer progress.Close()

	runner := service.NewNormalizeRunner(service.NewNormalizer(), req.Jobs).WithProgress(progress)
	uc := app.NewReportUseCaseBuilder().
		WithRunner(runner).
		WithProgress(progress).
		Build()

	resp, err := uc.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	summary := resp.Record.Summary
	logger.Info("audit scored",
		"pages", summary.TotalPages,
		"tested", summary.TestedPages,
		"score", summary.OverallScore,
		"grade", summary.OverallGrade,
		"tier", summary.CertificateTier)
	if len(resp.Record.Warnings) > 0 {
		logger.Warn("report built from partial data", "warnings", len(resp.Record.Warnings))
	}
	logger.Info("data completeness", "percent", resp.Validation.Completeness)
	for _, path := range resp.OutputPaths {
		logger.Info("report written", "path", path)
	}

	return nil
}

// buildReportRequest merges config values with flags; explicitly set flags win
func buildReportRequest(cmd *cobra.Command, cfg *config.Config, inputPath string) domain.ReportRequest {
	req := domain.ReportRequest{
		InputPath:          inputPath,
		OutputFormats:      cfg.OutputFormats(),
		OutputDir:          cfg.Output.Directory,
		Pretty:             cfg.Output.Pretty,
		Policy:             domain.ValidationPolicy(cfg.Validation.Policy),
		RequiredCategories: cfg.RequiredCategories(),
		IncludePageDetail:  cfg.HTML.IncludePageDetail,
		IncludeBadge:       cfg.HTML.Badges,
		Jobs:               cfg.Normalize.Jobs,
		ConfigPath:         reportConfigPath,
	}

	if cmd.Flags().Changed("format") {
		req.OutputFormats = toFormats(reportFormats)
	}
	if cmd.Flags().Changed("output-dir") {
		req.OutputDir = reportOutputDir
	}
	if cmd.Flags().Changed("pretty") {
		req.Pretty = reportPretty
	}
	if cmd.Flags().Changed("policy") {
		req.Policy = domain.ValidationPolicy(reportPolicy)
	}
	if cmd.Flags().Changed("require") {
		req.RequiredCategories = toCategories(reportRequired)
	}
	if cmd.Flags().Changed("page-detail") {
		req.IncludePageDetail = reportPageDetail
	}
	if cmd.Flags().Changed("jobs") {
		req.Jobs = reportJobs
	}
	req.MetricsOnly = reportMetricsOnly
	req.MetricsCategories = toCategories(reportMetrics)

	return req
}

func toFormats(names []string) []domain.OutputFormat {
	formats := make([]domain.OutputFormat, 0, len(names))
	for _, name := range names {
		formats = append(formats, domain.OutputFormat(name))
	}
	return formats
}

func toCategories(names []string) []domain.Category {
	if len(names) == 0 {
		return nil
	}
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, domain.Category(name))
	}
	return categories
}
