package webapi

import "time"

// TrialSummary is the API response for a single trial in the list.
type TrialSummary struct {
	TrialID           string    `json:"trialId"`
	VideoURL          string    `json:"videoUrl"`
	TranscriptURL     string    `json:"transcriptUrl"`
	HasAnalysis       bool      `json:"hasAnalysis"`
	AnalysisID        string    `json:"analysisId,omitempty"`
	AnalysisTimestamp time.Time `json:"analysisTimestamp,omitzero"`
	IssueCount        int       `json:"issueCount"`
	AnalysisCount     int       `json:"analysisCount"`
}

// TrialsResponse wraps the trial list.
type TrialsResponse struct {
	Trials []TrialSummary `json:"trials"`
}

// AnalysisSummary describes one stored artifact of a trial.
type AnalysisSummary struct {
	Name           string    `json:"name"`
	WorkflowID     string    `json:"workflowId,omitempty"`
	AnalysisID     string    `json:"analysisId"`
	AnalysisMethod string    `json:"analysisMethod"`
	ModelVersion   string    `json:"modelVersion"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	IssueCount     int       `json:"issueCount"`
}

// AnalysesResponse wraps the artifact list of one trial.
type AnalysesResponse struct {
	TrialID  string            `json:"trialId"`
	Analyses []AnalysisSummary `json:"analyses"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
