// Package report renders analysis artifacts for people.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// issueFieldOrder puts the usual provider fields first; any other keys
// follow in alphabetical order.
var issueFieldOrder = []string{"type", "severity", "timestamp", "description", "evidence"}

// Markdown renders res as a Markdown document.
func Markdown(res *models.AnalysisResult) string {
	var b strings.Builder

	title := res.WorkflowTitle
	if title == "" {
		title = res.WorkflowID
	}
	fmt.Fprintf(&b, "# Analysis of %s\n\n", res.TrialID)
	if title != "" {
		fmt.Fprintf(&b, "**Workflow:** %s  \n", title)
	}
	fmt.Fprintf(&b, "**Model:** %s  \n", res.ModelVersion)
	fmt.Fprintf(&b, "**Method:** %s  \n", res.AnalysisMethod)
	fmt.Fprintf(&b, "**Run:** %s  \n", res.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**Status:** %s  \n", res.Status)
	fmt.Fprintf(&b, "**Total issues:** %d\n\n", res.Metrics.TotalIssuesFound)

	writeCounts(&b, "Issues by pass", "Pass", res.Metrics.IssuesByPass, byNumber)
	writeCounts(&b, "Issues by chunk", "Chunk", res.Metrics.IssuesByChunk, byNumber)
	writeCounts(&b, "Issues by domain", "Domain", res.Metrics.IssuesByDomain, sort.Strings)
	writeCounts(&b, "Issues by theme", "Theme", res.Metrics.IssuesByTheme, sort.Strings)

	if details := res.Details(); len(details) > 0 {
		b.WriteString("## Passes\n\n")
		b.WriteString("| # | Scope | Issues | Error |\n|---|---|---|---|\n")
		for _, d := range details {
			issues := "-"
			if d.IssuesFound != nil {
				issues = strconv.Itoa(*d.IssuesFound)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", d.Sequence(), cell(scope(d)), issues, cell(d.Error))
		}
		b.WriteString("\n")
	}

	if len(res.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for i, is := range res.Issues {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, heading(is))
			for _, k := range issueKeys(is) {
				fmt.Fprintf(&b, "- **%s:** %s\n", k, valueString(is[k]))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders res as a standalone HTML page.
func HTML(res *models.AnalysisResult) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(res)), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", res.AnalysisID)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func writeCounts(b *strings.Builder, title, column string, counts map[string]int, order func([]string)) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	order(keys)

	fmt.Fprintf(b, "## %s\n\n| %s | Issues |\n|---|---|\n", title, column)
	for _, k := range keys {
		fmt.Fprintf(b, "| %s | %d |\n", cell(k), counts[k])
	}
	b.WriteString("\n")
}

func byNumber(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
}

func scope(d models.PassDetail) string {
	switch {
	case d.Theme != "":
		return d.Theme + " (" + d.Domain + ")"
	case d.ChunkRange != "":
		return d.ChunkRange
	default:
		return ""
	}
}

func heading(is models.Issue) string {
	if t, ok := is["type"].(string); ok && t != "" {
		return t
	}
	return "Issue"
}

func issueKeys(is models.Issue) []string {
	seen := make(map[string]bool, len(is))
	var keys []string
	for _, k := range issueFieldOrder {
		if _, ok := is[k]; ok && k != "type" {
			keys = append(keys, k)
		}
		seen[k] = true
	}
	var rest []string
	for k := range is {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func valueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
