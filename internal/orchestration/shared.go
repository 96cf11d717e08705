package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/provider"
)

// DefaultContinuePrompt is sent for every pass after the first in a shared
// conversation.
const DefaultContinuePrompt = `Continue analyzing the transcript. Find additional issues that you haven't identified yet.

IMPORTANT: You have already found issues in previous passes. Do NOT repeat any issues you've already identified. Focus on finding completely NEW issues in different areas that were missed.`

// SharedStrategy runs all passes in one conversation. Documents are uploaded
// once and sent with the first message; later passes only ask the model to
// continue. Each pass waits for the previous response.
type SharedStrategy struct {
	PassCount       int
	PassDelay       time.Duration
	ContinuePrompt  string
	IncludePlaybook bool
}

func (sh *SharedStrategy) Passes() int { return sh.PassCount }

func (sh *SharedStrategy) Run(ctx context.Context, s *Session) ([]models.PassOutcome, error) {
	names := []string{DocGuidebook, DocTranscript}
	if sh.IncludePlaybook {
		names = append(names, DocPlaybook)
	}
	docs, err := s.upload(ctx, names...)
	if err != nil {
		return nil, err
	}

	chat, err := s.Client.StartChat(ctx)
	if err != nil {
		return nil, err
	}

	var outcomes []models.PassOutcome
	for pass := 1; pass <= sh.PassCount; pass++ {
		s.passStart(pass, sh.PassCount, "")
		started := time.Now()

		parts := []provider.Part{provider.Text(sh.ContinuePrompt)}
		if pass == 1 {
			parts = documentParts(docs, s.Prompt.Text, sh.IncludePlaybook)
		}

		raw, err := chat.Send(ctx, parts)
		if err != nil {
			return outcomes, fmt.Errorf("pass %d: %w", pass, err)
		}

		o := parse(models.PassDetail{Pass: pass}, raw, stampPass(pass))
		outcomes = append(outcomes, o)
		s.passDone(pass, sh.PassCount, "", o, started)

		if pass < sh.PassCount && sh.PassDelay > 0 {
			if err := s.wait(ctx, sh.PassDelay); err != nil {
				return outcomes, err
			}
		}
	}
	return outcomes, nil
}
