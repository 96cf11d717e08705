package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassDetail_Succeeded(t *testing.T) {
	assert.True(t, PassDetail{Pass: 1, IssuesFound: Count(0)}.Succeeded())
	assert.False(t, PassDetail{Pass: 1, Error: "Invalid JSON response: EOF"}.Succeeded())
	assert.False(t, PassDetail{Pass: 1}.Succeeded())
}

func TestPassDetail_Sequence(t *testing.T) {
	assert.Equal(t, 3, PassDetail{Pass: 3}.Sequence())
	assert.Equal(t, 2, PassDetail{Chunk: 2, ChunkRange: "10:00 - 20:00"}.Sequence())
}

func TestPassDetail_ZeroIssuesIsKept(t *testing.T) {
	data, err := json.Marshal(PassDetail{Pass: 2, IssuesFound: Count(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pass":2,"issuesFound":0}`, string(data))

	data, err = json.Marshal(PassDetail{Pass: 2, Error: "boom", RawResponse: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pass":2,"error":"boom","rawResponse":"x"}`, string(data))
}

func TestAnalysisResult_Details(t *testing.T) {
	passes := &AnalysisResult{PassDetails: []PassDetail{{Pass: 1}}}
	assert.Equal(t, passes.PassDetails, passes.Details())

	chunks := &AnalysisResult{ChunkDetails: []PassDetail{{Chunk: 1}}}
	assert.Equal(t, chunks.ChunkDetails, chunks.Details())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "rfc3339", in: `"2025-10-14T09:30:05Z"`, want: time.Date(2025, 10, 14, 9, 30, 5, 0, time.UTC)},
		{name: "rfc3339 offset", in: `"2025-10-14T09:30:05.5+02:00"`, want: time.Date(2025, 10, 14, 7, 30, 5, 500000000, time.UTC)},
		{name: "zoneless microseconds", in: `"2025-10-14T09:30:05.123456"`, want: time.Date(2025, 10, 14, 9, 30, 5, 123456000, time.Local)},
		{name: "zoneless seconds", in: `"2025-10-14T09:30:05"`, want: time.Date(2025, 10, 14, 9, 30, 5, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"last tuesday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestamp_MarshalsRFC3339(t *testing.T) {
	data, err := json.Marshal(Timestamp{Time: time.Date(2025, 10, 14, 9, 30, 5, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-14T09:30:05Z"`, string(data))
}

func TestMetrics_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Metrics{IssuesByPass: map[string]int{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalIssuesFound":0,"issuesByPass":{}}`, string(data))

	data, err = json.Marshal(Metrics{
		TotalIssuesFound: 2,
		IssuesByTheme:    map[string]int{"Narrow Reframing": 2},
		IssuesByDomain:   map[string]int{"Parent Engagement": 2, "Student Engagement": 0},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalIssuesFound":2,"issuesByTheme":{"Narrow Reframing":2},"issuesByDomain":{"Parent Engagement":2,"Student Engagement":0}}`, string(data))

	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(`{"totalIssuesFound":1,"issuesByChunk":{"1":1}}`), &m))
	assert.Equal(t, map[string]int{"1": 1}, m.IssuesByChunk)
	assert.Nil(t, m.IssuesByPass)
}
