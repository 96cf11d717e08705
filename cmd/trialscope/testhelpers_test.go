package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/trialscope/internal/projectconfig"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/workflow"
	"github.com/stretchr/testify/require"
)

const testPrompt = "Analyze the transcript and return a JSON array of issues."

// setupProject lays out a project with two trials in a temp dir and makes
// it the working directory.
func setupProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write(projectconfig.FileName, config)
	write("data/trials/demo-g1/transcript.pdf", "%PDF-1.4 demo")
	write("data/trials/alpha/transcript.pdf", "%PDF-1.4 alpha")
	write("data/prompt-assets/"+projectconfig.DefaultGuidebook, "%PDF-1.4 guidebook")
	write("data/prompt-assets/"+projectconfig.DefaultPlaybook, "%PDF-1.4 playbook")
	write("prompts/prompt-standard-multipass.txt", testPrompt)

	t.Chdir(dir)
	return dir
}

// useClient makes analyze run against c for the duration of the test.
func useClient(t *testing.T, c provider.Client) {
	t.Helper()
	orig := newClient
	newClient = func(context.Context, *projectconfig.ProjectConfig, *workflow.Workflow) (provider.Client, error) {
		return c, nil
	}
	t.Cleanup(func() { newClient = orig })
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
