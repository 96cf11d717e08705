package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spboyer/trialscope/internal/models"
	"github.com/spboyer/trialscope/internal/provider"
)

// FreshStrategy runs a fixed number of independent requests. From the second
// pass on, the prompt lists every issue found so far and asks for new ones.
type FreshStrategy struct {
	PassCount int
	// Reupload uploads all documents again before every pass so no
	// provider-side state is shared between passes.
	Reupload bool
}

func (f *FreshStrategy) Passes() int { return f.PassCount }

func (f *FreshStrategy) Run(ctx context.Context, s *Session) ([]models.PassOutcome, error) {
	var (
		docs     map[string]*provider.Document
		err      error
		found    []models.Issue
		outcomes []models.PassOutcome
	)

	if !f.Reupload {
		if docs, err = s.upload(ctx, DocGuidebook, DocPlaybook, DocTranscript); err != nil {
			return nil, err
		}
	}

	for pass := 1; pass <= f.PassCount; pass++ {
		s.passStart(pass, f.PassCount, "")
		started := time.Now()

		if f.Reupload {
			if docs, err = s.upload(ctx, DocGuidebook, DocPlaybook, DocTranscript); err != nil {
				return outcomes, fmt.Errorf("pass %d: %w", pass, err)
			}
		}

		text := s.Prompt.Text
		if pass > 1 {
			if text, err = freshFollowUp(text, pass, found); err != nil {
				return outcomes, err
			}
		}

		raw, err := s.Client.Generate(ctx, documentParts(docs, text, true))
		if err != nil {
			return outcomes, fmt.Errorf("pass %d: %w", pass, err)
		}

		o := parse(models.PassDetail{Pass: pass}, raw, stampPass(pass))
		found = append(found, o.Issues...)
		outcomes = append(outcomes, o)
		s.passDone(pass, f.PassCount, "", o, started)
	}
	return outcomes, nil
}

// freshFollowUp appends the exclusion instruction with every prior issue
// serialized in full.
func freshFollowUp(base string, pass int, prior []models.Issue) (string, error) {
	if prior == nil {
		prior = []models.Issue{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prior); err != nil {
		return "", fmt.Errorf("serializing previous issues: %w", err)
	}

	return fmt.Sprintf(`%s

IMPORTANT: This is Pass %d of the analysis. You have already identified the following issues in previous passes:

%s

DO NOT include any of these previously identified issues again. Find NEW issues that were not identified in previous passes. Focus on finding additional problems that may have been missed.
`, base, pass, bytes.TrimRight(buf.Bytes(), "\n")), nil
}
