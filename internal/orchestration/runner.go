package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/prompt"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/results"
	"github.com/spboyer/trialscope/internal/trial"
	"github.com/spboyer/trialscope/internal/workflow"
)

// Runner runs one workflow against one trial and aggregates the outcome.
type Runner struct {
	wf     *workflow.Workflow
	client provider.Client

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart      EventType = "run_start"
	EventPassStart     EventType = "pass_start"
	EventPassComplete  EventType = "pass_complete"
	EventPassFailed    EventType = "pass_failed"
	EventCacheReleased EventType = "cache_released"
	EventRunComplete   EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	Workflow    string
	TrialID     string
	Pass        int
	TotalPasses int
	// Label is the theme name, chunk range or cache name, when there is one.
	Label      string
	Detail     *models.PassDetail
	DurationMs int64
	Details    map[string]any
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock replaces time.Now for the run timestamp and cache names.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithSleep replaces the blocking delay used between shared passes.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

// NewRunner creates a runner for wf using client.
func NewRunner(wf *workflow.Workflow, client provider.Client, opts ...RunnerOption) *Runner {
	r := &Runner{
		wf:        wf,
		client:    client,
		now:       time.Now,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Output is what a completed run produced.
type Output struct {
	Result *models.AnalysisResult
	// Outcomes keeps the complete raw responses, which the result only
	// carries truncated.
	Outcomes  []models.PassOutcome
	Timestamp time.Time
}

// Run executes every pass of the workflow against the trial's documents.
// Per-pass parse failures are part of the result. An upload or provider
// error aborts the run and nothing is returned for it.
func (r *Runner) Run(ctx context.Context, paths *trial.Paths, tmpl prompt.Template) (*Output, error) {
	strategy, err := NewStrategy(r.wf)
	if err != nil {
		return nil, err
	}

	ts := r.now()
	notify := func(evt ProgressEvent) {
		evt.Workflow = r.wf.ID
		evt.TrialID = paths.TrialID
		r.notifyProgress(evt)
	}

	notify(ProgressEvent{
		EventType:   EventRunStart,
		TotalPasses: strategy.Passes(),
		Details: map[string]any{
			"model":    r.wf.Model,
			"provider": string(r.wf.Provider),
			"strategy": string(r.wf.Strategy),
			"prompt":   r.wf.PromptID,
		},
	})

	session := &Session{
		Client:    r.client,
		Documents: paths.Documents(),
		Prompt:    tmpl,
		now:       r.now,
		sleep:     r.sleep,
		notify:    notify,
	}

	started := time.Now()
	outcomes, err := strategy.Run(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("%s on trial %s: %w", r.wf.ID, paths.TrialID, err)
	}

	res, err := results.Build(r.wf, paths.TrialID, ts, outcomes)
	if err != nil {
		return nil, err
	}

	notify(ProgressEvent{
		EventType:   EventRunComplete,
		TotalPasses: len(outcomes),
		DurationMs:  time.Since(started).Milliseconds(),
		Details: map[string]any{
			"status":       string(res.Status),
			"total_issues": res.Metrics.TotalIssuesFound,
		},
	})

	return &Output{Result: res, Outcomes: outcomes, Timestamp: ts}, nil
}
