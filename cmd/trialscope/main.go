package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/trialscope/internal/prompt"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/trial"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitMissing = 1 // Missing trial, document, prompt or credential
	ExitError   = 2 // Any other configuration, provider or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by a command to the process exit code.
// Passes that failed to parse never surface here.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, trial.ErrNotFound),
		errors.Is(err, prompt.ErrNotFound),
		errors.Is(err, provider.ErrMissingAPIKey):
		return ExitMissing
	default:
		return ExitError
	}
}
