package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ludo-technologies/siteaudit/domain"
)

// MarkdownEmitter renders the record as a human-readable narrative. The
// layout is stable enough to be machine-read back by ParseNarrative, which
// downstream tooling uses to triage findings from published reports.
type MarkdownEmitter struct{}

// NewMarkdownEmitter creates a markdown emitter
func NewMarkdownEmitter() *MarkdownEmitter {
	return &MarkdownEmitter{}
}

// Emit implements domain.ReportEmitter
func (e *MarkdownEmitter) Emit(record *domain.AuditRunRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Site Audit Report\n\n")
	if record.Metadata.GeneratedAt != "" {
		fmt.Fprintf(&buf, "Generated: %s\n", record.Metadata.GeneratedAt)
	}
	if record.Metadata.ToolVersion != "" {
		fmt.Fprintf(&buf, "Tool: siteaudit %s\n", record.Metadata.ToolVersion)
	}
	if record.Metadata.SourceURL != "" {
		fmt.Fprintf(&buf, "Source: %s\n", record.Metadata.SourceURL)
	}
	buf.WriteString("\n")

	e.writeSummary(&buf, record.Summary)

	if len(record.Warnings) > 0 {
		buf.WriteString("## Data Warnings\n\n")
		for _, warning := range record.Warnings {
			fmt.Fprintf(&buf, "- %s\n", warning)
		}
		buf.WriteString("\n")
	}

	for _, page := range record.Pages {
		e.writePage(&buf, page)
	}

	return buf.Bytes(), nil
}

func (e *MarkdownEmitter) writeSummary(buf *bytes.Buffer, summary domain.Summary) {
	buf.WriteString("## Summary\n\n")
	fmt.Fprintf(buf, "- Total pages: %d\n", summary.TotalPages)
	fmt.Fprintf(buf, "- Tested: %d (passed %d, failed %d, crashed %d)\n",
		summary.TestedPages, summary.PassedPages, summary.FailedPages, summary.CrashedPages)
	fmt.Fprintf(buf, "- Skipped: %d\n", summary.SkippedPages)
	fmt.Fprintf(buf, "- Issues: %d errors, %d warnings, %d notices\n",
		summary.TotalErrors, summary.TotalWarnings, summary.TotalNotices)
	fmt.Fprintf(buf, "- Overall score: %s (%s)\n", formatScore(summary.OverallScore), summary.OverallGrade)
	fmt.Fprintf(buf, "- Certificate: %s\n", summary.CertificateTier)
	buf.WriteString("\n")
}

func (e *MarkdownEmitter) writePage(buf *bytes.Buffer, page domain.PageRecord) {
	fmt.Fprintf(buf, "## Page: %s\n\n", page.URL)

	if page.Title != "" {
		fmt.Fprintf(buf, "Title: %s\n", page.Title)
	}
	fmt.Fprintf(buf, "Status: %s (%d ms)\n", page.Status, page.DurationMs)

	if scores := e.scoreLine(page); scores != "" {
		fmt.Fprintf(buf, "Scores: %s\n", scores)
	}
	buf.WriteString("\n")

	for _, severity := range domain.Severities {
		issues := e.collectIssues(page, severity)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(buf, "### %s\n\n", severityHeading(severity))
		for _, issue := range issues {
			fmt.Fprintf(buf, "- %s\n", renderIssue(issue))
		}
		buf.WriteString("\n")
	}
}

func (e *MarkdownEmitter) scoreLine(page domain.PageRecord) string {
	var parts []string
	for _, category := range domain.Categories {
		result, ok := page.Result(category)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", category.Title(), formatScore(result.Score), result.Grade))
	}
	return strings.Join(parts, " | ")
}

// collectIssues gathers one severity's issues across categories in
// canonical category order
func (e *MarkdownEmitter) collectIssues(page domain.PageRecord, severity domain.Severity) []domain.Issue {
	var issues []domain.Issue
	for _, category := range domain.Categories {
		result, ok := page.Result(category)
		if !ok {
			continue
		}
		for _, issue := range result.Issues {
			if issue.Severity == severity {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

// markdownEscaper backslash-escapes characters that would otherwise become
// inline markup, so a markdown parser hands the original text back. The
// parenthesis wrapping renderIssue adds itself stays unescaped.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`<`, `\<`,
	`>`, `\>`,
	`~`, `\~`,
	`|`, `\|`,
	`#`, `\#`,
	`!`, `\!`,
	`&`, `\&`,
)

// renderIssue writes one finding as a list item. Code and selector ride in
// a trailing parenthesized attribute list that ParseNarrative reads back.
func renderIssue(issue domain.Issue) string {
	var attrs []string
	if issue.Code != "" {
		attrs = append(attrs, "code="+markdownEscaper.Replace(issue.Code))
	}
	if issue.Selector != "" {
		attrs = append(attrs, "selector="+markdownEscaper.Replace(issue.Selector))
	}
	message := markdownEscaper.Replace(issue.Message)
	if len(attrs) == 0 {
		return message
	}
	return fmt.Sprintf("%s (%s)", message, strings.Join(attrs, ", "))
}

func severityHeading(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return "Errors"
	case domain.SeverityWarning:
		return "Warnings"
	default:
		return "Notices"
	}
}
