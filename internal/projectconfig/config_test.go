package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "data", cfg.Paths.Data)
	assert.Equal(t, "data/trials", cfg.Paths.Trials)
	assert.Equal(t, "data/prompt-assets", cfg.Paths.PromptAssets)
	assert.Equal(t, "prompts", cfg.Paths.Prompts)
	assert.Equal(t, "annotation-guidebook-v0.2.pdf", cfg.Paths.Guidebook)
	assert.Equal(t, "trial-delivery-playbook-G2-US.pdf", cfg.Paths.Playbook)
	assert.Empty(t, cfg.Paths.Workflows)

	assert.Equal(t, "GEMINI_API_KEY", cfg.Providers.Gemini.APIKeyEnv)
	assert.Empty(t, cfg.Providers.Gemini.BaseURL)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.Providers.Anthropic.BaseURL)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Providers.Anthropic.APIKeyEnv)
	assert.Equal(t, 16000, cfg.Providers.Anthropic.MaxTokens)
	assert.Equal(t, 600, cfg.Providers.Anthropic.Timeout)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.ArchiveEnabled())
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
paths:
  trials: "fixtures/trials"
  prompt_assets: "/srv/assets"
  prompts: "custom-prompts"
  guidebook: guide.pdf
  playbook: play.pdf
  workflows: workflows.yaml
providers:
  gemini:
    base_url: http://localhost:9999
    api_key_env: MY_GEMINI
  anthropic:
    max_tokens: 8000
    timeout: 30
server:
  port: 8080
archive:
  raw_responses: true
publish:
  enabled: true
  azure_blob:
    account_url: https://acct.blob.core.windows.net
    container: analyses
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "fixtures", "trials"), cfg.TrialsDir())
	assert.Equal(t, "/srv/assets", cfg.PromptAssetsDir())
	assert.Equal(t, filepath.Join(dir, "custom-prompts"), cfg.PromptsDir())
	assert.Equal(t, filepath.Join(dir, "workflows.yaml"), cfg.WorkflowsFile())
	assert.Equal(t, "guide.pdf", cfg.Paths.Guidebook)
	assert.Equal(t, "play.pdf", cfg.Paths.Playbook)

	assert.Equal(t, "http://localhost:9999", cfg.Providers.Gemini.BaseURL)
	assert.Equal(t, "MY_GEMINI", cfg.Providers.Gemini.APIKeyEnv)
	assert.Equal(t, 8000, cfg.Providers.Anthropic.MaxTokens)
	assert.Equal(t, 30, cfg.Providers.Anthropic.Timeout)
	// Unset fields keep their defaults.
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Providers.Anthropic.APIKeyEnv)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.ArchiveEnabled())
	assert.True(t, cfg.PublishEnabled())
	assert.Equal(t, "analyses", cfg.Publish.AzureBlob.Container)
}

func TestLoad_NoFileReturnsDefaultsRootedAtStart(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "data", "trials"), cfg.TrialsDir())
	assert.Empty(t, cfg.WorkflowsFile())
}

func TestLoad_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "server:\n  port: 4000\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "prompts"), cfg.PromptsDir())
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "paths: [unterminated")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "archive:\n  raw_responses: false\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Archive.RawResponses)
	assert.False(t, cfg.ArchiveEnabled())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
