package service

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/ludo-technologies/siteaudit/domain"
)

// NarrativePage is one page's findings read back from a markdown report
type NarrativePage struct {
	URL    string
	Issues []domain.Issue
}

const pageHeadingPrefix = "Page: "

// issueAttrs matches the trailing attribute list renderIssue appends,
// e.g. "Images missing alt text (code=1.1.1, selector=img.hero)". The
// message group is greedy so the attributes are the last parenthesized
// group on the line; selectors like li:not(.decorative) may themselves
// contain parentheses.
var issueAttrs = regexp.MustCompile(`^(.*)\s+\(((?:code|selector)=.*)\)$`)

// ParseNarrative reads a markdown report produced by MarkdownEmitter back
// into per-page findings. Summary and score lines are skipped; only page
// headings, severity headings, and issue list items are interpreted.
func ParseNarrative(data []byte) ([]NarrativePage, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(data)

	var pages []NarrativePage
	var current *NarrativePage
	var severity domain.Severity
	severityActive := false

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.Heading:
			text := nodeText(n)
			switch n.Level {
			case 2:
				severityActive = false
				if strings.HasPrefix(text, pageHeadingPrefix) {
					pages = append(pages, NarrativePage{URL: strings.TrimPrefix(text, pageHeadingPrefix)})
					current = &pages[len(pages)-1]
				} else {
					current = nil
				}
			case 3:
				severity, severityActive = headingSeverity(text)
			}
			return ast.SkipChildren

		case *ast.ListItem:
			if current != nil && severityActive {
				if issue, ok := parseIssueItem(nodeText(n), severity); ok {
					current.Issues = append(current.Issues, issue)
				}
			}
			return ast.SkipChildren
		}

		return ast.GoToNext
	})

	return pages, nil
}

// headingSeverity maps a severity section heading back to its severity
func headingSeverity(text string) (domain.Severity, bool) {
	switch text {
	case "Errors":
		return domain.SeverityError, true
	case "Warnings":
		return domain.SeverityWarning, true
	case "Notices":
		return domain.SeverityNotice, true
	default:
		return "", false
	}
}

// parseIssueItem inverts renderIssue
func parseIssueItem(text string, severity domain.Severity) (domain.Issue, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Issue{}, false
	}

	issue := domain.Issue{Severity: severity, Message: text}

	if m := issueAttrs.FindStringSubmatch(text); m != nil {
		issue.Message = m[1]
		issue.Code, issue.Selector = splitIssueAttrs(m[2])
	}

	return issue, true
}

// splitIssueAttrs splits "code=X, selector=Y" on the attribute markers
// rather than on commas, since selector lists contain ", " themselves
func splitIssueAttrs(attrs string) (code, selector string) {
	const selectorMarker = ", selector="
	if rest, ok := strings.CutPrefix(attrs, "code="); ok {
		if i := strings.Index(rest, selectorMarker); i >= 0 {
			return rest[:i], rest[i+len(selectorMarker):]
		}
		return rest, ""
	}
	return "", strings.TrimPrefix(attrs, "selector=")
}

// nodeText concatenates the literal text under a node. Code spans count as
// text so reports written before metacharacter escaping still read back.
func nodeText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch leaf := n.(type) {
		case *ast.Text:
			sb.Write(leaf.Literal)
		case *ast.Code:
			sb.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}
