package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysisJSON = `{
  "workflowId": "gemini-25pro-chunked-10min",
  "analysisId": "analysis-demo-g1-20251014-093005",
  "trialId": "demo-g1",
  "timestamp": "2025-10-14T09:30:05Z",
  "modelVersion": "gemini-2.5-pro",
  "analysisMethod": "chunked-10min",
  "status": "completed",
  "issues": [{"type": "X", "chunkNumber": 1, "chunkRange": "00:00 - 10:00"}],
  "chunkDetails": [
    {"chunk": 1, "chunkRange": "00:00 - 10:00", "issuesFound": 1, "rawResponse": "[...]"},
    {"chunk": 2, "chunkRange": "10:00 - 20:00", "error": "Invalid JSON response: EOF", "rawResponse": ""}
  ],
  "metrics": {"totalIssuesFound": 1, "issuesByChunk": {"1": 1}}
}`

func TestValidateBytes_Valid(t *testing.T) {
	assert.Empty(t, ValidateBytes([]byte(validAnalysisJSON)))
}

func TestValidateBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantLoc string
	}{
		{
			name:    "unknown status",
			mutate:  func(s string) string { return strings.Replace(s, `"status": "completed"`, `"status": "done"`, 1) },
			wantLoc: "/status",
		},
		{
			name:    "issue is not an object",
			mutate:  func(s string) string { return strings.Replace(s, `"issues": [{`, `"issues": ["oops", {`, 1) },
			wantLoc: "/issues/0",
		},
		{
			name: "detail with both count and error",
			mutate: func(s string) string {
				return strings.Replace(s, `"issuesFound": 1, "rawResponse"`, `"issuesFound": 1, "error": "x", "rawResponse"`, 1)
			},
			wantLoc: "/chunkDetails/0",
		},
		{
			name:    "negative total",
			mutate:  func(s string) string { return strings.Replace(s, `"totalIssuesFound": 1`, `"totalIssuesFound": -1`, 1) },
			wantLoc: "/metrics/totalIssuesFound",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateBytes([]byte(tt.mutate(validAnalysisJSON)))
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.HasPrefix(e, tt.wantLoc) {
					found = true
				}
			}
			assert.True(t, found, "no error at %s in %v", tt.wantLoc, errs)
		})
	}
}

func TestValidateBytes_NotJSON(t *testing.T) {
	errs := ValidateBytes([]byte("{"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "JSON parse error")
}

func TestValidateResult(t *testing.T) {
	res := &models.AnalysisResult{
		AnalysisID:     "analysis-demo-g1-20251014-093005",
		TrialID:        "demo-g1",
		Timestamp:      models.Timestamp{Time: time.Date(2025, 10, 14, 9, 30, 5, 0, time.UTC)},
		ModelVersion:   "claude-sonnet-4-5-20250929",
		AnalysisMethod: "multi-pass-3x-shared",
		Status:         models.StatusFailed,
		Issues:         []models.Issue{},
		PassDetails: []models.PassDetail{
			{Pass: 1, Error: "Invalid JSON response: EOF", RawResponse: "oops"},
		},
	}
	assert.Empty(t, ValidateResult(res))

	res.Issues = nil
	assert.NotEmpty(t, ValidateResult(res))
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	require.NoError(t, os.WriteFile(path, []byte(validAnalysisJSON), 0o644))

	errs, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, errs)

	_, err = ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
