package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/workflow"
)

// CacheDisplayPrefix starts the display name of every cache a theme run creates.
const CacheDisplayPrefix = "trial-analysis-"

// ThemeStrategy runs one pass per theme against a provider-side cache of the
// documents. Passes are independent: a provider error on one theme is
// recorded on that pass and the run moves on. The cache is deleted at the
// end; failing to delete it is only logged.
type ThemeStrategy struct {
	Themes   []workflow.Theme
	CacheTTL time.Duration
}

func (th *ThemeStrategy) Passes() int { return len(th.Themes) }

func (th *ThemeStrategy) Run(ctx context.Context, s *Session) ([]models.PassOutcome, error) {
	cc, ok := s.Client.(provider.CacheClient)
	if !ok {
		return nil, fmt.Errorf("provider client %T does not support document caching", s.Client)
	}

	docs, err := s.upload(ctx, DocGuidebook, DocPlaybook, DocTranscript)
	if err != nil {
		return nil, err
	}

	displayName := CacheDisplayPrefix + s.clock().Format("20060102-150405")
	cache, err := cc.CreateCache(ctx,
		[]*provider.Document{docs[DocGuidebook], docs[DocPlaybook], docs[DocTranscript]},
		th.CacheTTL, displayName)
	if err != nil {
		return nil, err
	}
	slog.Debug("Cache created", "cache", cache.Name, "ttl", th.CacheTTL)
	defer th.release(ctx, s, cc, cache)

	total := len(th.Themes)
	var outcomes []models.PassOutcome
	for i, theme := range th.Themes {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		pass := i + 1
		s.passStart(pass, total, theme.Name)
		started := time.Now()

		detail := models.PassDetail{Pass: pass, Theme: theme.Name, Domain: theme.Domain}
		raw, err := cc.GenerateFromCache(ctx, cache, s.Prompt.Render(theme.Name))

		var o models.PassOutcome
		if err != nil {
			detail.Error = err.Error()
			o = models.PassOutcome{Detail: detail}
		} else {
			o = parse(detail, raw, func(is models.Issue) {
				is[models.KeyAnalysisPass] = theme.Name
				is[models.KeyDomain] = theme.Domain
			})
		}
		outcomes = append(outcomes, o)
		s.passDone(pass, total, theme.Name, o, started)
	}
	return outcomes, nil
}

func (th *ThemeStrategy) release(ctx context.Context, s *Session, cc provider.CacheClient, cache *provider.Cache) {
	// Release even when the run was cancelled.
	ctx = context.WithoutCancel(ctx)
	if err := cc.DeleteCache(ctx, cache.Name); err != nil {
		slog.Warn("Could not delete cache", "cache", cache.Name, "error", err)
		return
	}
	if s.notify != nil {
		s.notify(ProgressEvent{EventType: EventCacheReleased, Label: cache.Name})
	}
}
