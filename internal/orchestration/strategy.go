package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/normalize"
	"github.com/spboyer/trialscope/internal/prompt"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/workflow"
)

// Logical document names.
const (
	DocTranscript = "transcript"
	DocGuidebook  = "guidebook"
	DocPlaybook   = "playbook"
)

// Strategy runs the passes of one analysis and returns their outcomes in
// pass order. A response that cannot be parsed is recorded on its pass and
// never returned as an error; upload and provider errors end the run.
type Strategy interface {
	Run(ctx context.Context, s *Session) ([]models.PassOutcome, error)

	// Passes returns how many passes Run will attempt.
	Passes() int
}

// Session carries what a strategy needs for one run.
type Session struct {
	Client provider.Client
	// Documents maps logical document names to local paths.
	Documents map[string]string
	Prompt    prompt.Template

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	notify func(ProgressEvent)
}

func (s *Session) upload(ctx context.Context, names ...string) (map[string]*provider.Document, error) {
	paths := make(map[string]string, len(names))
	for _, n := range names {
		p, ok := s.Documents[n]
		if !ok {
			return nil, fmt.Errorf("no path for document %q", n)
		}
		paths[n] = p
	}
	return provider.UploadAll(ctx, s.Client, paths)
}

func (s *Session) passStart(pass, total int, label string) {
	if s.notify != nil {
		s.notify(ProgressEvent{EventType: EventPassStart, Pass: pass, TotalPasses: total, Label: label})
	}
}

func (s *Session) passDone(pass, total int, label string, o models.PassOutcome, started time.Time) {
	if s.notify == nil {
		return
	}
	evt := ProgressEvent{
		EventType:   EventPassComplete,
		Pass:        pass,
		TotalPasses: total,
		Label:       label,
		Detail:      &o.Detail,
		DurationMs:  time.Since(started).Milliseconds(),
	}
	if !o.Detail.Succeeded() {
		evt.EventType = EventPassFailed
	}
	s.notify(evt)
}

func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		return s.sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func (s *Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// documentParts lays out a full request: guidebook, playbook (optional),
// the prompt text, then the transcript.
func documentParts(docs map[string]*provider.Document, text string, withPlaybook bool) []provider.Part {
	parts := []provider.Part{provider.Doc(docs[DocGuidebook])}
	if withPlaybook {
		parts = append(parts, provider.Doc(docs[DocPlaybook]))
	}
	return append(parts,
		provider.Text(text),
		provider.Doc(docs[DocTranscript]))
}

// parse turns one raw response into a pass outcome. On success every issue
// is passed to stamp and the descriptor gets issuesFound; on failure the
// descriptor gets the error and the outcome has no issues.
func parse(detail models.PassDetail, raw string, stamp func(models.Issue)) models.PassOutcome {
	detail.RawResponse = normalize.Truncate(raw)

	issues, err := normalize.Issues(raw)
	if err != nil {
		detail.Error = err.Error()
		return models.PassOutcome{Detail: detail, Raw: raw}
	}
	for _, is := range issues {
		stamp(is)
	}
	detail.IssuesFound = models.Count(len(issues))
	return models.PassOutcome{Issues: issues, Detail: detail, Raw: raw}
}

func stampPass(pass int) func(models.Issue) {
	return func(is models.Issue) {
		is[models.KeyAnalysisPass] = pass
	}
}

// NewStrategy builds the strategy a workflow names from its options.
func NewStrategy(wf *workflow.Workflow) (Strategy, error) {
	switch wf.Strategy {
	case workflow.StrategyFresh:
		o, err := wf.FixedOptions()
		if err != nil {
			return nil, err
		}
		return &FreshStrategy{PassCount: o.Passes, Reupload: o.ReuploadEachPass()}, nil

	case workflow.StrategyShared:
		o, err := wf.SharedOptions()
		if err != nil {
			return nil, err
		}
		cont := o.ContinuePrompt
		if cont == "" {
			cont = DefaultContinuePrompt
		}
		return &SharedStrategy{
			PassCount:       o.Passes,
			PassDelay:       o.PassDelay,
			ContinuePrompt:  cont,
			IncludePlaybook: o.WithPlaybook(),
		}, nil

	case workflow.StrategyTheme:
		o, err := wf.ThemeOptions()
		if err != nil {
			return nil, err
		}
		return &ThemeStrategy{Themes: o.Themes, CacheTTL: o.CacheTTL}, nil

	case workflow.StrategyChunked:
		o, err := wf.ChunkOptions()
		if err != nil {
			return nil, err
		}
		return &ChunkedStrategy{ChunkMinutes: o.ChunkMinutes, EstimatedMinutes: o.EstimatedMinutes}, nil

	default:
		return nil, fmt.Errorf("'%s' is not a valid strategy", wf.Strategy)
	}
}
