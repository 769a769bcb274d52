package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/siteaudit/domain"
)

// csvAbsent is the literal written for a category the analyzers did not
// measure, distinguishing "not measured" from a zero score
const csvAbsent = "N/A"

// CSVEmitter renders one row per page with fixed per-category score and
// grade columns. Normalization warnings go in leading comment lines so the
// tabular body stays machine-readable.
type CSVEmitter struct{}

// NewCSVEmitter creates a CSV emitter
func NewCSVEmitter() *CSVEmitter {
	return &CSVEmitter{}
}

// Emit implements domain.ReportEmitter
func (e *CSVEmitter) Emit(record *domain.AuditRunRecord) ([]byte, error) {
	var buf bytes.Buffer

	for _, warning := range record.Warnings {
		// Comments must stay single-line to not break the body
		fmt.Fprintf(&buf, "# %s\n", strings.ReplaceAll(warning, "\n", " "))
	}

	w := csv.NewWriter(&buf)

	header := []string{"URL", "Title", "Status", "DurationMs"}
	for _, category := range domain.Categories {
		name := columnName(category)
		header = append(header, name+"Score", name+"Grade")
	}
	if err := w.Write(header); err != nil {
		return nil, domain.NewOutputError("writing CSV header", err)
	}

	for _, page := range record.Pages {
		row := []string{
			page.URL,
			page.Title,
			string(page.Status),
			strconv.FormatInt(page.DurationMs, 10),
		}
		for _, category := range domain.Categories {
			result, ok := page.Result(category)
			if !ok {
				row = append(row, csvAbsent, csvAbsent)
				continue
			}
			row = append(row, formatScore(result.Score), result.Grade)
		}
		if err := w.Write(row); err != nil {
			return nil, domain.NewOutputError(fmt.Sprintf("writing CSV row for %s", page.URL), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.NewOutputError("flushing CSV report", err)
	}
	return buf.Bytes(), nil
}

// columnName renders a category as a header fragment, e.g. MobileFriendliness
func columnName(category domain.Category) string {
	if category == domain.CategorySEO {
		return "SEO"
	}
	return strings.ReplaceAll(category.Title(), " ", "")
}
