// Package workflow defines the named analysis workflows: which provider and
// model to call, which prompt to send, and which pass strategy to run.
package workflow

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

//go:embed workflows.yaml
var builtin []byte

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Strategy names a pass orchestration strategy.
type Strategy string

const (
	StrategyFresh   Strategy = "fresh"
	StrategyShared  Strategy = "shared"
	StrategyTheme   Strategy = "theme"
	StrategyChunked Strategy = "chunked"
)

// Output selects where the analysis artifact is written.
type Output string

const (
	// OutputAnalyses writes a timestamped file under the trial's analyses/ directory.
	OutputAnalyses Output = "analyses"
	// OutputLegacy writes the fixed-name ai-analysis.json in the trial directory.
	OutputLegacy Output = "legacy"
)

// ErrUnknown is returned by Registry.Get for an unregistered workflow id.
var ErrUnknown = errors.New("unknown workflow")

// Workflow is one named analysis configuration. It is built once at start-up
// and passed down to everything that needs it.
type Workflow struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Provider    Provider       `yaml:"provider"`
	Model       string         `yaml:"model"`
	PromptID    string         `yaml:"prompt"`
	Strategy    Strategy       `yaml:"strategy"`
	Method      string         `yaml:"method,omitempty"`
	Output      Output         `yaml:"output,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
}

// FixedOptions configures the fresh-context strategy.
type FixedOptions struct {
	Passes int `mapstructure:"passes"`
	// Reupload uploads every document again before each pass. Defaults to true.
	Reupload *bool `mapstructure:"reupload"`
}

// ReuploadEachPass reports whether documents are uploaded per pass.
func (o FixedOptions) ReuploadEachPass() bool {
	return o.Reupload == nil || *o.Reupload
}

// SharedOptions configures the shared-context strategy.
type SharedOptions struct {
	Passes    int           `mapstructure:"passes"`
	PassDelay time.Duration `mapstructure:"pass_delay"`
	// IncludePlaybook sends the playbook with the first message. Defaults to true.
	IncludePlaybook *bool `mapstructure:"include_playbook"`
	// ContinuePrompt overrides the instruction sent for passes after the first.
	ContinuePrompt string `mapstructure:"continue_prompt"`
}

// WithPlaybook reports whether the playbook is part of the conversation.
func (o SharedOptions) WithPlaybook() bool {
	return o.IncludePlaybook == nil || *o.IncludePlaybook
}

// Theme is one (theme, domain) pair of the theme-indexed strategy.
type Theme struct {
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
}

// ThemeOptions configures the theme-indexed cached strategy.
type ThemeOptions struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Themes   []Theme       `mapstructure:"themes"`
}

// Domains returns the configured domains in first-seen order.
func (o ThemeOptions) Domains() []string {
	seen := map[string]bool{}
	var domains []string
	for _, t := range o.Themes {
		if !seen[t.Domain] {
			seen[t.Domain] = true
			domains = append(domains, t.Domain)
		}
	}
	return domains
}

// ThemeNames returns the theme names in pass order.
func (o ThemeOptions) ThemeNames() []string {
	names := make([]string, len(o.Themes))
	for i, t := range o.Themes {
		names[i] = t.Name
	}
	return names
}

// ChunkOptions configures the time-chunked strategy.
type ChunkOptions struct {
	ChunkMinutes     int `mapstructure:"chunk_minutes"`
	EstimatedMinutes int `mapstructure:"estimated_minutes"`
}

// Chunks returns ceil(EstimatedMinutes / ChunkMinutes).
func (o ChunkOptions) Chunks() int {
	return (o.EstimatedMinutes + o.ChunkMinutes - 1) / o.ChunkMinutes
}

// FixedOptions decodes the options of a fresh-context workflow.
func (w *Workflow) FixedOptions() (FixedOptions, error) {
	var o FixedOptions
	if err := w.decode(StrategyFresh, &o); err != nil {
		return o, err
	}
	if o.Passes < 1 {
		return o, fmt.Errorf("workflow %s: passes must be at least 1, got %d", w.ID, o.Passes)
	}
	return o, nil
}

// SharedOptions decodes the options of a shared-context workflow.
func (w *Workflow) SharedOptions() (SharedOptions, error) {
	var o SharedOptions
	if err := w.decode(StrategyShared, &o); err != nil {
		return o, err
	}
	if o.Passes < 1 {
		return o, fmt.Errorf("workflow %s: passes must be at least 1, got %d", w.ID, o.Passes)
	}
	if o.PassDelay < 0 {
		return o, fmt.Errorf("workflow %s: pass_delay must not be negative", w.ID)
	}
	return o, nil
}

// ThemeOptions decodes the options of a theme-indexed workflow.
func (w *Workflow) ThemeOptions() (ThemeOptions, error) {
	var o ThemeOptions
	if err := w.decode(StrategyTheme, &o); err != nil {
		return o, err
	}
	if len(o.Themes) == 0 {
		return o, fmt.Errorf("workflow %s: at least one theme is required", w.ID)
	}
	for i, t := range o.Themes {
		if t.Name == "" || t.Domain == "" {
			return o, fmt.Errorf("workflow %s: theme %d needs both name and domain", w.ID, i+1)
		}
	}
	if o.CacheTTL <= 0 {
		return o, fmt.Errorf("workflow %s: cache_ttl must be positive", w.ID)
	}
	return o, nil
}

// ChunkOptions decodes the options of a time-chunked workflow.
func (w *Workflow) ChunkOptions() (ChunkOptions, error) {
	var o ChunkOptions
	if err := w.decode(StrategyChunked, &o); err != nil {
		return o, err
	}
	if o.ChunkMinutes < 1 {
		return o, fmt.Errorf("workflow %s: chunk_minutes must be at least 1", w.ID)
	}
	if o.EstimatedMinutes < 1 {
		return o, fmt.Errorf("workflow %s: estimated_minutes must be at least 1", w.ID)
	}
	return o, nil
}

func (w *Workflow) decode(want Strategy, out any) error {
	if w.Strategy != want {
		return fmt.Errorf("workflow %s uses strategy %q, not %q", w.ID, w.Strategy, want)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(w.Options); err != nil {
		return fmt.Errorf("workflow %s options: %w", w.ID, err)
	}
	return nil
}

// Validate checks the identity fields and decodes the strategy options.
func (w *Workflow) Validate() error {
	if w.ID == "" {
		return errors.New("workflow id is required")
	}
	if w.Model == "" {
		return fmt.Errorf("workflow %s: model is required", w.ID)
	}
	if w.PromptID == "" {
		return fmt.Errorf("workflow %s: prompt is required", w.ID)
	}
	switch w.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("workflow %s: '%s' is not a valid provider", w.ID, w.Provider)
	}
	switch w.Output {
	case "", OutputAnalyses, OutputLegacy:
	default:
		return fmt.Errorf("workflow %s: '%s' is not a valid output", w.ID, w.Output)
	}

	var err error
	switch w.Strategy {
	case StrategyFresh:
		_, err = w.FixedOptions()
	case StrategyShared:
		_, err = w.SharedOptions()
	case StrategyTheme:
		if w.Provider != ProviderGemini {
			return fmt.Errorf("workflow %s: the theme strategy needs provider-side caching, which only %s supports", w.ID, ProviderGemini)
		}
		_, err = w.ThemeOptions()
	case StrategyChunked:
		_, err = w.ChunkOptions()
	default:
		return fmt.Errorf("workflow %s: '%s' is not a valid strategy", w.ID, w.Strategy)
	}
	return err
}

// Registry holds workflows in definition order.
type Registry struct {
	workflows []*Workflow
	byID      map[string]*Workflow
}

type file struct {
	Workflows []*Workflow `yaml:"workflows"`
}

// Parse reads and validates a workflows document.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing workflows: %w", err)
	}
	if len(f.Workflows) == 0 {
		return nil, errors.New("no workflows defined")
	}

	r := &Registry{byID: make(map[string]*Workflow, len(f.Workflows))}
	for _, w := range f.Workflows {
		if w.Output == "" {
			w.Output = OutputAnalyses
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[w.ID]; dup {
			return nil, fmt.Errorf("workflow %s is defined more than once", w.ID)
		}
		r.byID[w.ID] = w
		r.workflows = append(r.workflows, w)
	}
	return r, nil
}

// Load reads workflows from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflows file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in workflows.
func Default() (*Registry, error) {
	return Parse(builtin)
}

// Open loads path, or the built-in workflows when path is empty.
func Open(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Get returns the workflow registered under id.
func (r *Registry) Get(id string) (*Workflow, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	return w, nil
}

// List returns every workflow in definition order.
func (r *Registry) List() []*Workflow {
	out := make([]*Workflow, len(r.workflows))
	copy(out, r.workflows)
	return out
}
