// Package trial resolves the on-disk locations of a trial's documents and
// analysis artifacts.
package trial

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File and directory names inside a trial directory.
const (
	TranscriptFile = "transcript.pdf"
	AnalysesDir    = "analyses"
	LegacyAnalysis = "ai-analysis.json"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// Kind identifies which asset is missing.
type Kind string

const (
	KindTrial      Kind = "Trial"
	KindTranscript Kind = "Transcript"
	KindGuidebook  Kind = "Guidebook"
	KindPlaybook   Kind = "Playbook"
)

// NotFoundError reports a missing trial directory or required document.
type NotFoundError struct {
	Kind    Kind
	TrialID string
	Path    string
	// Available lists the existing trial identifiers, sorted. Only set for KindTrial.
	Available []string
}

func (e *NotFoundError) Error() string {
	if e.Kind != KindTrial {
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: Trial '%s' not found\n\nAvailable trials:", e.TrialID)
	if len(e.Available) == 0 {
		b.WriteString("\n  (none)")
	}
	for _, id := range e.Available {
		fmt.Fprintf(&b, "\n  - %s", id)
	}
	return b.String()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Layout describes where trials and shared prompt assets live.
type Layout struct {
	TrialsDir       string
	PromptAssetsDir string
	Guidebook       string
	Playbook        string
}

// Paths holds every resolved location for one trial.
type Paths struct {
	TrialID     string
	TrialDir    string
	Transcript  string
	Guidebook   string
	Playbook    string
	AnalysesDir string
	AssetsDir   string
}

// Resolve returns the paths for trialID. It fails with a *NotFoundError
// listing the available trials when the trial directory does not exist.
func (l Layout) Resolve(trialID string) (*Paths, error) {
	dir := filepath.Join(l.TrialsDir, trialID)

	found := false
	if validID(trialID) {
		info, err := os.Stat(dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking trial directory %s: %w", dir, err)
		}
		found = err == nil && info.IsDir()
	}

	if !found {
		available, listErr := l.ListTrials()
		if listErr != nil {
			return nil, listErr
		}
		return nil, &NotFoundError{Kind: KindTrial, TrialID: trialID, Path: dir, Available: available}
	}

	return &Paths{
		TrialID:     trialID,
		TrialDir:    dir,
		Transcript:  filepath.Join(dir, TranscriptFile),
		Guidebook:   filepath.Join(l.PromptAssetsDir, l.Guidebook),
		Playbook:    filepath.Join(l.PromptAssetsDir, l.Playbook),
		AnalysesDir: filepath.Join(dir, AnalysesDir),
		AssetsDir:   l.PromptAssetsDir,
	}, nil
}

// validID rejects identifiers that would escape the trials directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// ListTrials returns the names of all trial directories, sorted. A missing
// trials root yields an empty list.
func (l Layout) ListTrials() ([]string, error) {
	entries, err := os.ReadDir(l.TrialsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading trials directory: %w", err)
	}

	trials := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			trials = append(trials, e.Name())
		}
	}
	sort.Strings(trials)
	return trials, nil
}

// CheckRequired verifies the transcript, guidebook and playbook exist, in that
// order, and names the first one that is missing.
func (p *Paths) CheckRequired() error {
	required := []struct {
		kind Kind
		path string
	}{
		{KindTranscript, p.Transcript},
		{KindGuidebook, p.Guidebook},
		{KindPlaybook, p.Playbook},
	}

	for _, r := range required {
		if _, err := os.Stat(r.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &NotFoundError{Kind: r.kind, TrialID: p.TrialID, Path: r.path}
			}
			return fmt.Errorf("checking %s: %w", strings.ToLower(string(r.kind)), err)
		}
	}
	return nil
}

// Documents maps the logical document names to their paths.
func (p *Paths) Documents() map[string]string {
	return map[string]string{
		"transcript": p.Transcript,
		"guidebook":  p.Guidebook,
		"playbook":   p.Playbook,
	}
}

// ListAnalyses returns every analysis artifact of the trial: the JSON files
// under analyses/ sorted by name, followed by the legacy ai-analysis.json if present.
func (p *Paths) ListAnalyses() ([]string, error) {
	var files []string

	entries, err := os.ReadDir(p.AnalysesDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading analyses directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(p.AnalysesDir, e.Name()))
	}
	sort.Strings(files)

	legacy := filepath.Join(p.TrialDir, LegacyAnalysis)
	if _, err := os.Stat(legacy); err == nil {
		files = append(files, legacy)
	}
	return files, nil
}
