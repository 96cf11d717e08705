// Package projectconfig provides the ProjectConfig struct and loader for
// .trialscope.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".trialscope.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultDataDir         = "data"
	DefaultTrialsDir       = "data/trials"
	DefaultPromptAssetsDir = "data/prompt-assets"
	DefaultPromptsDir      = "prompts"
	DefaultGuidebook       = "annotation-guidebook-v0.2.pdf"
	DefaultPlaybook        = "trial-delivery-playbook-G2-US.pdf"

	DefaultGeminiKeyEnv = "GEMINI_API_KEY"

	DefaultAnthropicBaseURL   = "https://api.anthropic.com/v1"
	DefaultAnthropicKeyEnv    = "ANTHROPIC_API_KEY"
	DefaultAnthropicMaxTokens = 16000
	DefaultAnthropicTimeout   = 600

	DefaultServerPort = 3000
)

// PathsConfig holds the locations of trial data, prompt assets and prompts.
type PathsConfig struct {
	Data         string `yaml:"data,omitempty"`
	Trials       string `yaml:"trials,omitempty"`
	PromptAssets string `yaml:"prompt_assets,omitempty"`
	Prompts      string `yaml:"prompts,omitempty"`
	Guidebook    string `yaml:"guidebook,omitempty"`
	Playbook     string `yaml:"playbook,omitempty"`
	// Workflows optionally replaces the built-in workflow definitions.
	Workflows string `yaml:"workflows,omitempty"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// AnthropicConfig holds Claude Messages API settings.
type AnthropicConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// ProvidersConfig groups the LLM provider settings.
type ProvidersConfig struct {
	Gemini    GeminiConfig    `yaml:"gemini,omitempty"`
	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
}

// ServerConfig holds web API server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// ArchiveConfig controls the compressed raw-response archive.
type ArchiveConfig struct {
	RawResponses *bool `yaml:"raw_responses,omitempty"`
}

// AzureBlobConfig locates the storage container artifacts are published to.
type AzureBlobConfig struct {
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
}

// PublishConfig controls artifact publishing.
type PublishConfig struct {
	Enabled   *bool           `yaml:"enabled,omitempty"`
	AzureBlob AzureBlobConfig `yaml:"azure_blob,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .trialscope.yaml.
type ProjectConfig struct {
	Paths     PathsConfig     `yaml:"paths,omitempty"`
	Providers ProvidersConfig `yaml:"providers,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Archive   ArchiveConfig   `yaml:"archive,omitempty"`
	Publish   PublishConfig   `yaml:"publish,omitempty"`

	// Root is the directory relative paths are resolved against: the
	// directory holding the config file, or the start directory.
	Root string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Data:         DefaultDataDir,
			Trials:       DefaultTrialsDir,
			PromptAssets: DefaultPromptAssetsDir,
			Prompts:      DefaultPromptsDir,
			Guidebook:    DefaultGuidebook,
			Playbook:     DefaultPlaybook,
		},
		Providers: ProvidersConfig{
			Gemini: GeminiConfig{
				APIKeyEnv: DefaultGeminiKeyEnv,
			},
			Anthropic: AnthropicConfig{
				BaseURL:   DefaultAnthropicBaseURL,
				APIKeyEnv: DefaultAnthropicKeyEnv,
				MaxTokens: DefaultAnthropicMaxTokens,
				Timeout:   DefaultAnthropicTimeout,
			},
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Archive: ArchiveConfig{
			RawResponses: boolPtr(false),
		},
		Publish: PublishConfig{
			Enabled: boolPtr(false),
		},
		Root: ".",
	}
}

// Load finds .trialscope.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults rooted at startDir.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", startDir, err)
	}
	cfg.Root = absStart

	path, data, err := findConfigFile(absStart)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .trialscope.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// Resolve returns p unchanged if absolute, otherwise joined onto Root.
func (c *ProjectConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *ProjectConfig) TrialsDir() string       { return c.Resolve(c.Paths.Trials) }
func (c *ProjectConfig) PromptAssetsDir() string { return c.Resolve(c.Paths.PromptAssets) }
func (c *ProjectConfig) PromptsDir() string      { return c.Resolve(c.Paths.Prompts) }

// WorkflowsFile returns the workflow override file, or "" for the built-in set.
func (c *ProjectConfig) WorkflowsFile() string { return c.Resolve(c.Paths.Workflows) }

// ArchiveEnabled reports whether raw responses should be archived.
func (c *ProjectConfig) ArchiveEnabled() bool {
	return c.Archive.RawResponses != nil && *c.Archive.RawResponses
}

// PublishEnabled reports whether artifacts should be uploaded after a run.
func (c *ProjectConfig) PublishEnabled() bool {
	return c.Publish.Enabled != nil && *c.Publish.Enabled
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Data != "" {
		dst.Paths.Data = src.Paths.Data
	}
	if src.Paths.Trials != "" {
		dst.Paths.Trials = src.Paths.Trials
	}
	if src.Paths.PromptAssets != "" {
		dst.Paths.PromptAssets = src.Paths.PromptAssets
	}
	if src.Paths.Prompts != "" {
		dst.Paths.Prompts = src.Paths.Prompts
	}
	if src.Paths.Guidebook != "" {
		dst.Paths.Guidebook = src.Paths.Guidebook
	}
	if src.Paths.Playbook != "" {
		dst.Paths.Playbook = src.Paths.Playbook
	}
	if src.Paths.Workflows != "" {
		dst.Paths.Workflows = src.Paths.Workflows
	}

	// Providers
	if src.Providers.Gemini.BaseURL != "" {
		dst.Providers.Gemini.BaseURL = src.Providers.Gemini.BaseURL
	}
	if src.Providers.Gemini.APIKeyEnv != "" {
		dst.Providers.Gemini.APIKeyEnv = src.Providers.Gemini.APIKeyEnv
	}
	if src.Providers.Anthropic.BaseURL != "" {
		dst.Providers.Anthropic.BaseURL = src.Providers.Anthropic.BaseURL
	}
	if src.Providers.Anthropic.APIKeyEnv != "" {
		dst.Providers.Anthropic.APIKeyEnv = src.Providers.Anthropic.APIKeyEnv
	}
	if src.Providers.Anthropic.MaxTokens != 0 {
		dst.Providers.Anthropic.MaxTokens = src.Providers.Anthropic.MaxTokens
	}
	if src.Providers.Anthropic.Timeout != 0 {
		dst.Providers.Anthropic.Timeout = src.Providers.Anthropic.Timeout
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}

	// Archive
	if src.Archive.RawResponses != nil {
		dst.Archive.RawResponses = src.Archive.RawResponses
	}

	// Publish
	if src.Publish.Enabled != nil {
		dst.Publish.Enabled = src.Publish.Enabled
	}
	if src.Publish.AzureBlob.AccountURL != "" {
		dst.Publish.AzureBlob.AccountURL = src.Publish.AzureBlob.AccountURL
	}
	if src.Publish.AzureBlob.Container != "" {
		dst.Publish.AzureBlob.Container = src.Publish.AzureBlob.Container
	}
}

func boolPtr(b bool) *bool {
	return &b
}
