package service

import (
	"bytes"
	"html/template"

	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/internal/badge"
)

// HTMLEmitter renders a self-contained hypertext report: inline styles,
// inline badge artwork, no external resources.
type HTMLEmitter struct {
	opts EmitterOptions
}

// NewHTMLEmitter creates an HTML emitter
func NewHTMLEmitter(opts EmitterOptions) *HTMLEmitter {
	return &HTMLEmitter{opts: opts}
}

// htmlPage is one page row prepared for the template
type htmlPage struct {
	URL        string
	Title      string
	Status     domain.PageStatus
	DurationMs int64
	Composite  string
	Grade      string
	Scores     []htmlScore
	Issues     []domain.Issue
}

type htmlScore struct {
	Category string
	Score    string
	Grade    string
}

// htmlCategory is one analysis dimension's run-level aggregate
type htmlCategory struct {
	Anchor  string
	Title   string
	Average string
	Grade   string
	Pages   int
}

// htmlData is the template payload
type htmlData struct {
	Metadata   domain.RunMetadata
	Summary    domain.Summary
	Badge      template.HTML
	Categories []htmlCategory
	Tested     []htmlPage
	Skipped    []htmlPage
	Warnings   []string
	ShowDetail bool
}

// Emit implements domain.ReportEmitter
func (e *HTMLEmitter) Emit(record *domain.AuditRunRecord) ([]byte, error) {
	data := htmlData{
		Metadata:   record.Metadata,
		Summary:    record.Summary,
		Categories: buildCategoryStats(record.Pages),
		Warnings:   record.Warnings,
		ShowDetail: e.opts.IncludePageDetail,
	}
	if e.opts.IncludeBadge {
		data.Badge = template.HTML(badge.SVG(record.Summary.CertificateTier))
	}

	// Skipped pages are listed apart from tested ones; they carry no scores
	// and never influenced the summary aggregates
	for _, page := range record.Pages {
		row := e.buildPage(page)
		if page.Status == domain.PageStatusSkipped {
			data.Skipped = append(data.Skipped, row)
		} else {
			data.Tested = append(data.Tested, row)
		}
	}

	funcMap := template.FuncMap{
		"gradeClass": gradeClass,
		"statusClass": func(status domain.PageStatus) string {
			return "status-" + string(status)
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(htmlReportTemplate)
	if err != nil {
		return nil, domain.NewOutputError("parsing HTML template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, domain.NewOutputError("rendering HTML report", err)
	}
	return buf.Bytes(), nil
}

func (e *HTMLEmitter) buildPage(page domain.PageRecord) htmlPage {
	row := htmlPage{
		URL:        page.URL,
		Title:      page.Title,
		Status:     page.Status,
		DurationMs: page.DurationMs,
		Composite:  "n/a",
	}

	if composite, ok := page.Composite(); ok {
		row.Composite = formatScore(roundScore(composite))
		row.Grade = domain.GradeForScore(composite)
	}

	for _, category := range domain.Categories {
		result, ok := page.Result(category)
		if !ok {
			continue
		}
		row.Scores = append(row.Scores, htmlScore{
			Category: category.Title(),
			Score:    formatScore(result.Score),
			Grade:    result.Grade,
		})
		if e.opts.IncludePageDetail {
			row.Issues = append(row.Issues, result.Issues...)
		}
	}

	return row
}

// buildCategoryStats averages each category over non-skipped pages. A
// skipped page never contributes, even if it carries stray results.
func buildCategoryStats(pages []domain.PageRecord) []htmlCategory {
	stats := make([]htmlCategory, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		stat := htmlCategory{
			Anchor:  "category-" + string(category),
			Title:   category.Title(),
			Average: "n/a",
		}
		var sum float64
		for _, page := range pages {
			if page.Status == domain.PageStatusSkipped {
				continue
			}
			if result, ok := page.Result(category); ok {
				sum += result.Score
				stat.Pages++
			}
		}
		if stat.Pages > 0 {
			average := roundScore(sum / float64(stat.Pages))
			stat.Average = formatScore(average)
			stat.Grade = domain.GradeForScore(average)
		}
		stats = append(stats, stat)
	}
	return stats
}

// gradeClass maps a letter grade to its style class
func gradeClass(grade string) string {
	switch grade {
	case "A":
		return "grade-a"
	case "B":
		return "grade-b"
	case "C":
		return "grade-c"
	case "D":
		return "grade-d"
	default:
		return "grade-f"
	}
}

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Site Audit Report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; padding: 2rem; background: #f5f6f8; color: #24292f; }
  .container { max-width: 960px; margin: 0 auto; }
  header { display: flex; align-items: center; gap: 2rem; background: #fff; border-radius: 8px; padding: 1.5rem 2rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  header h1 { margin: 0 0 .5rem; font-size: 1.5rem; }
  header .meta { color: #57606a; font-size: .85rem; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 1rem; margin: 1.5rem 0; }
  .card { background: #fff; border-radius: 8px; padding: 1rem; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .card .value { font-size: 1.6rem; font-weight: 600; }
  .card .label { color: #57606a; font-size: .8rem; text-transform: uppercase; letter-spacing: .05em; }
  .notice { background: #fff8c5; border: 1px solid #d4a72c; border-radius: 8px; padding: 1rem 1.5rem; margin: 1.5rem 0; }
  .notice ul { margin: .5rem 0 0; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  th, td { padding: .6rem .9rem; text-align: left; border-bottom: 1px solid #eaecef; font-size: .9rem; }
  th { background: #f6f8fa; color: #57606a; font-size: .8rem; text-transform: uppercase; letter-spacing: .05em; }
  .grade-a { color: #1a7f37; font-weight: 600; }
  .grade-b { color: #4c8c2b; font-weight: 600; }
  .grade-c { color: #9a6700; font-weight: 600; }
  .grade-d { color: #bc4c00; font-weight: 600; }
  .grade-f { color: #cf222e; font-weight: 600; }
  .status-passed { color: #1a7f37; }
  .status-failed { color: #cf222e; }
  .status-crashed { color: #cf222e; font-style: italic; }
  .status-skipped { color: #57606a; }
  .issue-error { color: #cf222e; }
  .issue-warning { color: #9a6700; }
  .issue-notice { color: #57606a; }
  h2 { margin-top: 2rem; font-size: 1.15rem; }
  nav { margin: 1rem 0 0; font-size: .85rem; }
  nav a { margin-right: 1rem; color: #0969da; text-decoration: none; }
  .category { background: #fff; border-radius: 8px; padding: .75rem 1.5rem; margin: .75rem 0; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .category h3 { margin: .25rem 0; font-size: 1rem; }
  .category p { margin: .25rem 0; color: #57606a; }
  .scores span { margin-right: .75rem; white-space: nowrap; }
  .issues { margin: .25rem 0 .5rem; padding-left: 1.25rem; font-size: .85rem; }
  code { background: #f6f8fa; padding: .1rem .3rem; border-radius: 4px; font-size: .85em; }
</style>
</head>
<body>
<div class="container">
  <header>
    {{if .Badge}}<div class="badge">{{.Badge}}</div>{{end}}
    <div>
      <h1>Site Audit Report</h1>
      <div class="meta">
        {{if .Metadata.SourceURL}}Source: {{.Metadata.SourceURL}}<br>{{end}}
        Generated: {{.Metadata.GeneratedAt}}{{if .Metadata.ToolVersion}} · siteaudit {{.Metadata.ToolVersion}}{{end}}
      </div>
    </div>
  </header>

  <nav>
    {{range .Categories}}<a href="#{{.Anchor}}">{{.Title}}</a> {{end}}<a href="#pages">Pages</a>{{if .Skipped}} <a href="#skipped">Skipped Pages</a>{{end}}
  </nav>

  <div class="cards">
    <div class="card"><div class="value {{gradeClass .Summary.OverallGrade}}">{{printf "%.1f" .Summary.OverallScore}}</div><div class="label">Overall ({{.Summary.OverallGrade}})</div></div>
    <div class="card"><div class="value">{{.Summary.CertificateTier}}</div><div class="label">Certificate</div></div>
    <div class="card"><div class="value">{{.Summary.TestedPages}}/{{.Summary.TotalPages}}</div><div class="label">Pages Tested</div></div>
    <div class="card"><div class="value">{{.Summary.TotalErrors}}</div><div class="label">Errors</div></div>
    <div class="card"><div class="value">{{.Summary.TotalWarnings}}</div><div class="label">Warnings</div></div>
  </div>

  {{if .Warnings}}
  <div class="notice">
    <strong>Partial data.</strong> Some analyzer values could not be interpreted and were omitted; scores below are computed from the data that remained.
    <ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
  </div>
  {{end}}

  <h2>Categories</h2>
  {{range .Categories}}
  <section id="{{.Anchor}}" class="category">
    <h3>{{.Title}}</h3>
    {{if .Pages}}<p>Average score <span class="{{gradeClass .Grade}}">{{.Average}} ({{.Grade}})</span> across {{.Pages}} tested page(s).</p>{{else}}<p>No data for this category.</p>{{end}}
  </section>
  {{end}}

  <h2 id="pages">Pages</h2>
  <table>
    <thead><tr><th>URL</th><th>Status</th><th>Composite</th><th>Scores</th><th>Duration</th></tr></thead>
    <tbody>
    {{range .Tested}}
      <tr>
        <td>{{.URL}}{{if .Title}}<br><small>{{.Title}}</small>{{end}}</td>
        <td class="{{statusClass .Status}}">{{.Status}}</td>
        <td{{if .Grade}} class="{{gradeClass .Grade}}"{{end}}>{{.Composite}}{{if .Grade}} ({{.Grade}}){{end}}</td>
        <td class="scores">{{range .Scores}}<span>{{.Category}} <span class="{{gradeClass .Grade}}">{{.Score}}</span></span>{{end}}</td>
        <td>{{.DurationMs}} ms</td>
      </tr>
      {{if and $.ShowDetail .Issues}}
      <tr><td colspan="5">
        <ul class="issues">
        {{range .Issues}}<li class="issue-{{.Severity}}">{{.Message}}{{if .Code}} <code>{{.Code}}</code>{{end}}{{if .Selector}} <code>{{.Selector}}</code>{{end}}{{if .Remediation}}<em>{{.Remediation}}</em>{{end}}</li>{{end}}
        </ul>
      </td></tr>
      {{end}}
    {{end}}
    </tbody>
  </table>

  {{if .Skipped}}
  <h2 id="skipped">Skipped Pages</h2>
  <p>These pages were not audited and are excluded from all scores above.</p>
  <table>
    <thead><tr><th>URL</th></tr></thead>
    <tbody>{{range .Skipped}}<tr><td>{{.URL}}{{if .Title}}<br><small>{{.Title}}</small>{{end}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}
</div>
</body>
</html>
`
