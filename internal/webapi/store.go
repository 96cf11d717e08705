package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/trial"
)

// VideoFile is the optional session recording inside a trial directory.
const VideoFile = "video.mp4"

var (
	// ErrTrialNotFound is returned when a trial ID does not match a trial directory.
	ErrTrialNotFound = errors.New("trial not found")
	// ErrAnalysisNotFound is returned when a trial has no matching artifact.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrAssetNotFound is returned when a trial has no such media file.
	ErrAssetNotFound = errors.New("asset not found")
)

// Analysis is one stored artifact.
type Analysis struct {
	Name   string
	Path   string
	Result *models.AnalysisResult
	// Raw is the file content, served unchanged.
	Raw []byte
}

// TrialStore provides read access to trials and their analysis artifacts.
type TrialStore interface {
	// ListTrials returns every trial that has at least one artifact.
	ListTrials() ([]TrialSummary, error)
	// ListAnalyses returns the artifacts of one trial, oldest first.
	ListAnalyses(trialID string) ([]AnalysisSummary, error)
	// LatestAnalysis returns the most recent artifact of a trial.
	LatestAnalysis(trialID string) (*Analysis, error)
	// GetAnalysis returns one artifact by file name.
	GetAnalysis(trialID, name string) (*Analysis, error)
	// AssetPath returns the path of a media file inside the trial directory.
	AssetPath(trialID, name string) (string, error)
}

// FileStore reads artifacts straight from the trials directory on every
// request, so runs that finish while the server is up are visible at once.
type FileStore struct {
	layout trial.Layout
}

var _ TrialStore = (*FileStore)(nil)

// NewFileStore creates a FileStore over layout.
func NewFileStore(layout trial.Layout) *FileStore {
	return &FileStore{layout: layout}
}

func (fs *FileStore) resolve(trialID string) (*trial.Paths, error) {
	p, err := fs.layout.Resolve(trialID)
	if errors.Is(err, trial.ErrNotFound) {
		return nil, ErrTrialNotFound
	}
	return p, err
}

// load reads every artifact of a trial, skipping files that do not parse.
func (fs *FileStore) load(p *trial.Paths) ([]*Analysis, error) {
	files, err := p.ListAnalyses()
	if err != nil {
		return nil, err
	}

	analyses := make([]*Analysis, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("Skipping unreadable artifact", "path", path, "error", err)
			continue
		}
		var res models.AnalysisResult
		if err := json.Unmarshal(data, &res); err != nil {
			slog.Debug("Skipping malformed artifact", "path", path, "error", err)
			continue
		}
		analyses = append(analyses, &Analysis{Name: filepath.Base(path), Path: path, Result: &res, Raw: data})
	}
	return analyses, nil
}

func (fs *FileStore) ListTrials() ([]TrialSummary, error) {
	ids, err := fs.layout.ListTrials()
	if err != nil {
		return nil, err
	}

	trials := make([]TrialSummary, 0, len(ids))
	for _, id := range ids {
		p, err := fs.resolve(id)
		if err != nil {
			return nil, err
		}
		analyses, err := fs.load(p)
		if err != nil {
			return nil, err
		}
		if len(analyses) == 0 {
			continue
		}
		latest := newest(analyses)
		trials = append(trials, TrialSummary{
			TrialID:           id,
			VideoURL:          fmt.Sprintf("/api/trials/%s/video", id),
			TranscriptURL:     fmt.Sprintf("/api/trials/%s/transcript", id),
			HasAnalysis:       true,
			AnalysisID:        latest.Result.AnalysisID,
			AnalysisTimestamp: latest.Result.Timestamp.Time,
			IssueCount:        len(latest.Result.Issues),
			AnalysisCount:     len(analyses),
		})
	}
	return trials, nil
}

func (fs *FileStore) ListAnalyses(trialID string) ([]AnalysisSummary, error) {
	p, err := fs.resolve(trialID)
	if err != nil {
		return nil, err
	}
	analyses, err := fs.load(p)
	if err != nil {
		return nil, err
	}

	out := make([]AnalysisSummary, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, AnalysisSummary{
			Name:           a.Name,
			WorkflowID:     a.Result.WorkflowID,
			AnalysisID:     a.Result.AnalysisID,
			AnalysisMethod: a.Result.AnalysisMethod,
			ModelVersion:   a.Result.ModelVersion,
			Status:         string(a.Result.Status),
			Timestamp:      a.Result.Timestamp.Time,
			IssueCount:     len(a.Result.Issues),
		})
	}
	return out, nil
}

func (fs *FileStore) LatestAnalysis(trialID string) (*Analysis, error) {
	p, err := fs.resolve(trialID)
	if err != nil {
		return nil, err
	}
	analyses, err := fs.load(p)
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, ErrAnalysisNotFound
	}
	return newest(analyses), nil
}

func (fs *FileStore) GetAnalysis(trialID, name string) (*Analysis, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrAnalysisNotFound
	}
	p, err := fs.resolve(trialID)
	if err != nil {
		return nil, err
	}
	analyses, err := fs.load(p)
	if err != nil {
		return nil, err
	}
	for _, a := range analyses {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, ErrAnalysisNotFound
}

func (fs *FileStore) AssetPath(trialID, name string) (string, error) {
	p, err := fs.resolve(trialID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(p.TrialDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrAssetNotFound
	}
	return path, nil
}

// newest returns the artifact with the latest timestamp. On a tie the one
// listed last wins.
func newest(analyses []*Analysis) *Analysis {
	latest := analyses[0]
	for _, a := range analyses[1:] {
		if !a.Result.Timestamp.Before(latest.Result.Timestamp.Time) {
			latest = a
		}
	}
	return latest
}
