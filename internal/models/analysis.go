package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status represents the overall outcome of an analysis run.
type Status string

const (
	StatusCompleted         Status = "completed"
	StatusCompletedNoIssues Status = "completed_no_issues"
	StatusFailed            Status = "failed"
)

// Issue is one finding reported by the model. Its fields are defined by the
// provider response and are never validated; provenance keys are added on top.
type Issue map[string]any

// Provenance keys stamped onto every issue by the orchestrator.
const (
	KeyAnalysisPass = "analysisPass"
	KeyDomain       = "domain"
	KeyChunkNumber  = "chunkNumber"
	KeyChunkRange   = "chunkRange"
)

// PassDetail describes one pass (or chunk) of an analysis run.
// Exactly one of IssuesFound and Error is set.
type PassDetail struct {
	Pass        int    `json:"pass,omitempty"`
	Chunk       int    `json:"chunk,omitempty"`
	ChunkRange  string `json:"chunkRange,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Domain      string `json:"domain,omitempty"`
	IssuesFound *int   `json:"issuesFound,omitempty"`
	Error       string `json:"error,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}

// Succeeded reports whether the pass produced a parsed issue list.
func (d PassDetail) Succeeded() bool {
	return d.IssuesFound != nil && d.Error == ""
}

// Sequence returns the pass or chunk number, whichever is set.
func (d PassDetail) Sequence() int {
	if d.Chunk > 0 {
		return d.Chunk
	}
	return d.Pass
}

// PassOutcome is what one pass contributes to a run: its parsed issues
// (empty when it failed), its descriptor, and the complete raw response.
type PassOutcome struct {
	Issues []Issue
	Detail PassDetail
	Raw    string
}

// Count is a helper for building PassDetail.IssuesFound.
func Count(n int) *int {
	return &n
}

// Metrics holds totals and group-by breakdowns of an analysis. A nil map is
// left out of the JSON; an empty one is written as {}.
type Metrics struct {
	TotalIssuesFound int            `json:"totalIssuesFound"`
	IssuesByPass     map[string]int `json:"issuesByPass"`
	IssuesByTheme    map[string]int `json:"issuesByTheme"`
	IssuesByDomain   map[string]int `json:"issuesByDomain"`
	IssuesByChunk    map[string]int `json:"issuesByChunk"`
}

type metricsJSON struct {
	TotalIssuesFound int             `json:"totalIssuesFound"`
	IssuesByPass     *map[string]int `json:"issuesByPass,omitempty"`
	IssuesByTheme    *map[string]int `json:"issuesByTheme,omitempty"`
	IssuesByDomain   *map[string]int `json:"issuesByDomain,omitempty"`
	IssuesByChunk    *map[string]int `json:"issuesByChunk,omitempty"`
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	present := func(counts map[string]int) *map[string]int {
		if counts == nil {
			return nil
		}
		return &counts
	}
	return json.Marshal(metricsJSON{
		TotalIssuesFound: m.TotalIssuesFound,
		IssuesByPass:     present(m.IssuesByPass),
		IssuesByTheme:    present(m.IssuesByTheme),
		IssuesByDomain:   present(m.IssuesByDomain),
		IssuesByChunk:    present(m.IssuesByChunk),
	})
}

// naiveLayout is an ISO 8601 time without a zone, as Python's
// datetime.isoformat writes it. Such times are read as local time.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a run time. It is written as RFC 3339 and also read from
// zone-less ISO 8601 values found in older artifacts.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("timestamp %q is neither RFC 3339 nor ISO 8601", s)
	}
	t.Time = parsed
	return nil
}

// AnalysisResult is the terminal aggregate written for each run.
type AnalysisResult struct {
	// Workflow metadata
	WorkflowID          string `json:"workflowId,omitempty"`
	WorkflowTitle       string `json:"workflowTitle,omitempty"`
	WorkflowDescription string `json:"workflowDescription,omitempty"`
	PromptID            string `json:"promptId,omitempty"`

	// Analysis metadata
	AnalysisID     string    `json:"analysisId"`
	TrialID        string    `json:"trialId"`
	Timestamp      Timestamp `json:"timestamp"`
	ModelVersion   string    `json:"modelVersion"`
	AnalysisMethod string    `json:"analysisMethod"`

	Configuration map[string]any `json:"configuration,omitempty"`

	Status       Status       `json:"status"`
	Issues       []Issue      `json:"issues"`
	PassDetails  []PassDetail `json:"passDetails,omitempty"`
	ChunkDetails []PassDetail `json:"chunkDetails,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// Details returns the per-pass or per-chunk descriptors, whichever is populated.
func (r *AnalysisResult) Details() []PassDetail {
	if len(r.ChunkDetails) > 0 {
		return r.ChunkDetails
	}
	return r.PassDetails
}
