package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/orchestration"
	"github.com/spboyer/trialscope/internal/spinner"
	"github.com/spboyer/trialscope/internal/workflow"
	"golang.org/x/term"
)

var rule = strings.Repeat("=", 60)

// consoleReporter prints run progress the way operators are used to from
// the per-workflow scripts.
type consoleReporter struct {
	w        io.Writer
	wf       *workflow.Workflow
	spin     bool
	stopSpin func()
}

func newConsoleReporter(w io.Writer, wf *workflow.Workflow) *consoleReporter {
	return &consoleReporter{w: w, wf: wf, spin: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *consoleReporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...) //nolint:errcheck
}

func (r *consoleReporter) providerName() string {
	if r.wf.Provider == workflow.ProviderAnthropic {
		return "Claude"
	}
	return "Gemini"
}

func (r *consoleReporter) unit() string {
	if r.wf.Strategy == workflow.StrategyChunked {
		return "Chunk"
	}
	return "Pass"
}

func (r *consoleReporter) listen(evt orchestration.ProgressEvent) {
	switch evt.EventType {
	case orchestration.EventRunStart:
		r.printf("%s\nWORKFLOW: %s\n%s\n", rule, title(r.wf), rule)
		r.printf("Trial: %s\n", evt.TrialID)
		switch r.wf.Strategy {
		case workflow.StrategyTheme:
			r.printf("Passes: %d (one per theme)\n", evt.TotalPasses)
		case workflow.StrategyChunked:
			r.printf("Chunks: %d (estimated)\n", evt.TotalPasses)
		default:
			r.printf("Passes: %d\n", evt.TotalPasses)
		}
		r.printf("Model: %s\nPrompt: %s\n", r.wf.Model, r.wf.PromptID)
		if r.wf.Strategy == workflow.StrategyTheme {
			r.printf("Context Caching: Enabled\n")
		}
		r.printf("%s\n", rule)

	case orchestration.EventPassStart:
		head := fmt.Sprintf("%s %d/%d", strings.ToUpper(r.unit()), evt.Pass, evt.TotalPasses)
		if r.wf.Strategy == workflow.StrategyTheme {
			head += ": " + evt.Label
		}
		r.printf("\n%s\n%s\n%s\n", rule, head, rule)
		if r.wf.Strategy == workflow.StrategyChunked {
			r.printf("Analyzing time range: %s\n", evt.Label)
		}
		msg := fmt.Sprintf("Calling %s API (%s %d)...", r.providerName(), r.unit(), evt.Pass)
		if r.spin {
			r.stopSpin = spinner.Start(r.w, msg)
		} else {
			r.printf("%s\n", msg)
		}

	case orchestration.EventPassComplete:
		r.stopSpinner()
		n := 0
		if evt.Detail != nil && evt.Detail.IssuesFound != nil {
			n = *evt.Detail.IssuesFound
		}
		switch r.wf.Strategy {
		case workflow.StrategyTheme:
			r.printf("✓ Pass %d complete: Found %d issues for '%s'\n", evt.Pass, n, evt.Label)
		case workflow.StrategyChunked:
			r.printf("✓ Chunk %d complete: Found %d issues\n", evt.Pass, n)
		default:
			r.printf("✓ Pass %d complete: Found %d new issues\n", evt.Pass, n)
		}

	case orchestration.EventPassFailed:
		r.stopSpinner()
		var d models.PassDetail
		if evt.Detail != nil {
			d = *evt.Detail
		}
		switch {
		case r.wf.Strategy == workflow.StrategyTheme && d.RawResponse == "":
			r.printf("✗ Error in Pass %d (%s): %s\n", evt.Pass, evt.Label, d.Error)
		case r.wf.Strategy == workflow.StrategyTheme:
			r.printf("✗ Warning: Could not parse Pass %d (%s) response as JSON: %s\n", evt.Pass, evt.Label, d.Error)
		default:
			r.printf("✗ Warning: Could not parse %s %d response as JSON: %s\n", r.unit(), evt.Pass, d.Error)
		}

	case orchestration.EventCacheReleased:
		r.printf("\n  ✓ Cache deleted\n")
	}
}

func (r *consoleReporter) stopSpinner() {
	if r.stopSpin != nil {
		r.stopSpin()
		r.stopSpin = nil
	}
}

func title(wf *workflow.Workflow) string {
	if wf.Title != "" {
		return wf.Title
	}
	return wf.ID
}

// printSummary prints the closing summary of a run with its group-by counts.
func printSummary(w io.Writer, wf *workflow.Workflow, res *models.AnalysisResult, output string) {
	p := func(format string, args ...any) { fmt.Fprintf(w, format, args...) } //nolint:errcheck

	p("\n%s\nANALYSIS COMPLETE!\n%s\n", rule, rule)
	p("\nSummary:\n")
	p("  Workflow: %s\n", title(wf))
	p("  Trial ID: %s\n", res.TrialID)
	p("  Output: %s\n", output)
	p("  Analysis Method: %s\n", res.AnalysisMethod)
	p("  Status: %s\n", res.Status)
	if wf.Strategy == workflow.StrategyChunked {
		p("  Total Chunks: %d\n", len(res.ChunkDetails))
	}
	p("  Total Issues Found: %d\n", res.Metrics.TotalIssuesFound)

	switch wf.Strategy {
	case workflow.StrategyTheme:
		p("\nIssues by Domain:\n")
		domains := make([]string, 0, len(res.Metrics.IssuesByDomain))
		for d := range res.Metrics.IssuesByDomain {
			domains = append(domains, d)
		}
		sort.Strings(domains)
		for _, d := range domains {
			p("  %s: %d issues\n", d, res.Metrics.IssuesByDomain[d])
		}

		p("\nTop Themes:\n")
		for _, th := range topThemes(res.Metrics.IssuesByTheme, 5) {
			p("  %s: %d issues\n", th, res.Metrics.IssuesByTheme[th])
		}

	case workflow.StrategyChunked:
		p("\nIssues by Chunk:\n")
		for _, d := range res.ChunkDetails {
			p("  Chunk %d (%s): %s\n", d.Chunk, d.ChunkRange, countOrError(d))
		}

	default:
		p("\nIssues by Pass:\n")
		for _, d := range res.PassDetails {
			p("  Pass %d: %s\n", d.Pass, countOrError(d))
		}
	}
}

func countOrError(d models.PassDetail) string {
	if !d.Succeeded() {
		return "ERROR - " + d.Error
	}
	return strconv.Itoa(*d.IssuesFound) + " issues"
}

// topThemes returns up to n themes with issues, most issues first.
func topThemes(counts map[string]int, n int) []string {
	var themes []string
	for th, c := range counts {
		if c > 0 {
			themes = append(themes, th)
		}
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	if len(themes) > n {
		themes = themes[:n]
	}
	return themes
}
