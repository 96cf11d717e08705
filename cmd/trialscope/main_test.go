package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spboyer/trialscope/internal/prompt"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/trial"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "missing trial", err: &trial.NotFoundError{Kind: trial.KindTrial, TrialID: "x"}, want: ExitMissing},
		{name: "missing transcript", err: &trial.NotFoundError{Kind: trial.KindTranscript, Path: "/t.pdf"}, want: ExitMissing},
		{name: "missing prompt", err: fmt.Errorf("%w: prompts/prompt-x.txt", prompt.ErrNotFound), want: ExitMissing},
		{name: "missing key", err: &provider.MissingAPIKeyError{Env: "GEMINI_API_KEY"}, want: ExitMissing},
		{name: "wrapped missing key", err: fmt.Errorf("run: %w", &provider.MissingAPIKeyError{Env: "X"}), want: ExitMissing},
		{name: "provider failure", err: errors.New("anthropic API error (status 500)"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
