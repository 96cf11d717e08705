package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spboyer/trialscope/internal/projectconfig"
	"github.com/spboyer/trialscope/internal/prompt"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/trial"
	"github.com/spboyer/trialscope/internal/workflow"
)

// app is the configuration every command works from.
type app struct {
	cfg       *projectconfig.ProjectConfig
	workflows *workflow.Registry
}

// loadApp reads .trialscope.yaml (walking up from the working directory)
// and the workflow definitions it points to.
func loadApp() (*app, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", projectconfig.FileName, err)
	}
	reg, err := workflow.Open(cfg.WorkflowsFile())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, workflows: reg}, nil
}

func (a *app) layout() trial.Layout {
	return trial.Layout{
		TrialsDir:       a.cfg.TrialsDir(),
		PromptAssetsDir: a.cfg.PromptAssetsDir(),
		Guidebook:       a.cfg.Paths.Guidebook,
		Playbook:        a.cfg.Paths.Playbook,
	}
}

func (a *app) prompts() prompt.Store {
	return prompt.Store{Dir: a.cfg.PromptsDir()}
}

// clientFactory builds the provider client a workflow runs against.
type clientFactory func(ctx context.Context, cfg *projectconfig.ProjectConfig, wf *workflow.Workflow) (provider.Client, error)

// newClient is replaced in tests.
var newClient clientFactory = newProviderClient

func newProviderClient(ctx context.Context, cfg *projectconfig.ProjectConfig, wf *workflow.Workflow) (provider.Client, error) {
	switch wf.Provider {
	case workflow.ProviderGemini:
		return newGeminiClient(ctx, cfg, wf.Model)

	case workflow.ProviderAnthropic:
		a := cfg.Providers.Anthropic
		return provider.NewClaude(provider.ClaudeConfig{
			APIKey:    os.Getenv(a.APIKeyEnv),
			APIKeyEnv: a.APIKeyEnv,
			BaseURL:   a.BaseURL,
			Model:     wf.Model,
			MaxTokens: a.MaxTokens,
			Timeout:   time.Duration(a.Timeout) * time.Second,
		})

	default:
		return nil, fmt.Errorf("'%s' is not a valid provider", wf.Provider)
	}
}

func newGeminiClient(ctx context.Context, cfg *projectconfig.ProjectConfig, model string) (*provider.Gemini, error) {
	g := cfg.Providers.Gemini
	key := os.Getenv(g.APIKeyEnv)
	if key == "" {
		return nil, &provider.MissingAPIKeyError{Env: g.APIKeyEnv}
	}
	return provider.NewGemini(ctx, provider.GeminiConfig{APIKey: key, BaseURL: g.BaseURL, Model: model})
}
