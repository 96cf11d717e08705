// Package results aggregates pass outcomes into an analysis result and
// persists it as JSON.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/trial"
	"github.com/spboyer/trialscope/internal/workflow"
)

// TimestampLayout formats the run timestamp in ids and file names.
const TimestampLayout = "20060102-150405"

// Build merges the outcomes of one run into an AnalysisResult. Issues are
// concatenated in pass order; metrics are grouped by the workflow's dimension.
func Build(wf *workflow.Workflow, trialID string, now time.Time, outcomes []models.PassOutcome) (*models.AnalysisResult, error) {
	res := &models.AnalysisResult{
		WorkflowID:          wf.ID,
		WorkflowTitle:       wf.Title,
		WorkflowDescription: wf.Description,
		PromptID:            wf.PromptID,
		AnalysisID:          fmt.Sprintf("analysis-%s-%s", trialID, now.Format(TimestampLayout)),
		TrialID:             trialID,
		Timestamp:           models.Timestamp{Time: now},
		ModelVersion:        wf.Model,
		Issues:              []models.Issue{},
	}

	details := make([]models.PassDetail, 0, len(outcomes))
	for _, o := range outcomes {
		res.Issues = append(res.Issues, o.Issues...)
		details = append(details, o.Detail)
	}
	res.Metrics.TotalIssuesFound = len(res.Issues)
	res.Status = status(wf.Strategy, len(res.Issues))

	assets := []string{"guidebook", "playbook", "transcript"}
	switch wf.Strategy {
	case workflow.StrategyFresh:
		o, err := wf.FixedOptions()
		if err != nil {
			return nil, err
		}
		res.AnalysisMethod = method(wf, fmt.Sprintf("multi-pass-%dx-fresh", o.Passes))
		res.Configuration = configuration(wf, "fresh", assets, "passes", o.Passes)
		res.PassDetails = details
		res.Metrics.IssuesByPass = countBy(details, func(d models.PassDetail) string { return strconv.Itoa(d.Pass) })

	case workflow.StrategyShared:
		o, err := wf.SharedOptions()
		if err != nil {
			return nil, err
		}
		if !o.WithPlaybook() {
			assets = []string{"guidebook", "transcript"}
		}
		res.AnalysisMethod = method(wf, fmt.Sprintf("multi-pass-%dx-shared", o.Passes))
		res.Configuration = configuration(wf, "shared", assets, "passes", o.Passes)
		res.PassDetails = details
		res.Metrics.IssuesByPass = countBy(details, func(d models.PassDetail) string { return strconv.Itoa(d.Pass) })

	case workflow.StrategyTheme:
		o, err := wf.ThemeOptions()
		if err != nil {
			return nil, err
		}
		res.AnalysisMethod = method(wf, fmt.Sprintf("theme-by-theme-%dx-cached", len(o.Themes)))
		res.Configuration = configuration(wf, "cached-per-theme", assets,
			"passes", len(o.Themes),
			"cachingEnabled", true,
			"themesCovered", o.ThemeNames())
		res.PassDetails = details
		res.Metrics.IssuesByTheme = countBy(details, func(d models.PassDetail) string { return d.Theme })

		// Every configured domain is listed, even when none of its themes produced issues.
		byDomain := make(map[string]int, len(o.Domains()))
		for _, d := range o.Domains() {
			byDomain[d] = 0
		}
		for _, d := range details {
			if d.Succeeded() {
				byDomain[d.Domain] += *d.IssuesFound
			}
		}
		res.Metrics.IssuesByDomain = byDomain

	case workflow.StrategyChunked:
		o, err := wf.ChunkOptions()
		if err != nil {
			return nil, err
		}
		res.AnalysisMethod = method(wf, fmt.Sprintf("chunked-%dmin", o.ChunkMinutes))
		res.Configuration = configuration(wf, "chunked", assets,
			"chunkDurationMinutes", o.ChunkMinutes,
			"totalChunks", o.Chunks())
		res.ChunkDetails = details
		res.Metrics.IssuesByChunk = countBy(details, func(d models.PassDetail) string { return strconv.Itoa(d.Chunk) })

	default:
		return nil, fmt.Errorf("workflow %s: '%s' is not a valid strategy", wf.ID, wf.Strategy)
	}

	return res, nil
}

// status reports completed when any issue was found. An empty theme run is
// completed_no_issues, since each theme may legitimately have nothing to
// report; an empty run of any other strategy is failed.
func status(strategy workflow.Strategy, issues int) models.Status {
	switch {
	case issues > 0:
		return models.StatusCompleted
	case strategy == workflow.StrategyTheme:
		return models.StatusCompletedNoIssues
	default:
		return models.StatusFailed
	}
}

func method(wf *workflow.Workflow, fallback string) string {
	if wf.Method != "" {
		return wf.Method
	}
	return fallback
}

func configuration(wf *workflow.Workflow, strategy string, assets []string, kv ...any) map[string]any {
	cfg := map[string]any{
		"contextStrategy": strategy,
		"promptVariant":   wf.PromptID,
		"assetsUsed":      assets,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		cfg[kv[i].(string)] = kv[i+1]
	}
	return cfg
}

// countBy sums IssuesFound of the succeeded passes under key(d).
func countBy(details []models.PassDetail, key func(models.PassDetail) string) map[string]int {
	counts := map[string]int{}
	for _, d := range details {
		if d.Succeeded() {
			counts[key(d)] += *d.IssuesFound
		}
	}
	return counts
}

// Filename returns the artifact name for a run of workflowID at ts.
func Filename(workflowID string, ts time.Time) string {
	return fmt.Sprintf("%s-%s.json", workflowID, ts.Format(TimestampLayout))
}

// Write stores res as indented JSON in dir, creating dir if needed. The file
// is created exclusively: when the timestamped name is taken, a -2, -3, ...
// suffix is added, so an existing artifact is never overwritten.
func Write(dir, workflowID string, ts time.Time, res *models.AnalysisResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create analyses dir: %w", err)
	}

	data, err := marshal(res)
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("%s-%s", workflowID, ts.Format(TimestampLayout))
	for n := 1; ; n++ {
		name := base + ".json"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.json", base, n)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create analysis file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close() //nolint:errcheck
			return "", fmt.Errorf("write analysis: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write analysis: %w", err)
		}
		return path, nil
	}
}

// WriteLegacy stores res as the trial's fixed-name ai-analysis.json,
// replacing any previous one.
func WriteLegacy(trialDir string, res *models.AnalysisResult) (string, error) {
	data, err := marshal(res)
	if err != nil {
		return "", err
	}
	path := filepath.Join(trialDir, trial.LegacyAnalysis)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write analysis: %w", err)
	}
	return path, nil
}

// Load reads an analysis artifact.
func Load(path string) (*models.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res models.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &res, nil
}

func marshal(res *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return append(data, '\n'), nil
}
