package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spboyer/trialscope/internal/archive"
	"github.com/spboyer/trialscope/internal/orchestration"
	"github.com/spboyer/trialscope/internal/picker"
	"github.com/spboyer/trialscope/internal/publish"
	"github.com/spboyer/trialscope/internal/results"
	"github.com/spboyer/trialscope/internal/validation"
	"github.com/spboyer/trialscope/internal/workflow"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <workflow> <trial-id>",
		Short: "Analyze a trial transcript with one workflow",
		Long: `Analyze a trial transcript with one of the registered workflows.

Each workflow is a subcommand taking the trial id. When the trial id is
omitted on an interactive terminal, the trials are offered for selection.
Run "trialscope workflows" to list the workflows and what they do.`,
	}

	a, err := loadApp()
	if err != nil {
		cmd.Args = cobra.ArbitraryArgs
		cmd.RunE = func(*cobra.Command, []string) error { return err }
		return cmd
	}

	for _, wf := range a.workflows.List() {
		cmd.AddCommand(newWorkflowCommand(a, wf))
	}
	return cmd
}

func newWorkflowCommand(a *app, wf *workflow.Workflow) *cobra.Command {
	return &cobra.Command{
		Use:   wf.ID + " <trial-id>",
		Short: title(wf),
		Long:  wf.Description,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var trialID string
			if len(args) == 1 {
				trialID = args[0]
			} else {
				id, err := pickTrial(cmd, a)
				if err != nil {
					return err
				}
				trialID = id
			}
			_, err := analyze(cmd.Context(), cmd.OutOrStdout(), a, wf, trialID)
			return err
		},
	}
}

func pickTrial(cmd *cobra.Command, a *app) (string, error) {
	trials, err := a.layout().ListTrials()
	if err != nil {
		return "", err
	}
	id, err := picker.Trial(cmd.InOrStdin(), cmd.OutOrStdout(), "Select a trial to analyze", trials)
	if errors.Is(err, picker.ErrNotInteractive) {
		return "", fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	}
	return id, err
}

// analyze runs wf against one trial and writes the artifact. It returns
// the artifact path.
func analyze(ctx context.Context, out io.Writer, a *app, wf *workflow.Workflow, trialID string) (string, error) {
	paths, err := a.layout().Resolve(trialID)
	if err != nil {
		return "", err
	}
	// The playbook is checked even for workflows that do not send it.
	if err := paths.CheckRequired(); err != nil {
		return "", err
	}

	tmpl, err := a.prompts().Load(wf.PromptID)
	if err != nil {
		return "", err
	}

	client, err := newClient(ctx, a.cfg, wf)
	if err != nil {
		return "", err
	}

	runner := orchestration.NewRunner(wf, client)
	reporter := newConsoleReporter(out, wf)
	runner.OnProgress(reporter.listen)
	defer reporter.stopSpinner()

	run, err := runner.Run(ctx, paths, tmpl)
	if err != nil {
		return "", err
	}
	res := run.Result

	for _, problem := range validation.ValidateResult(res) {
		slog.Warn("Analysis does not match schema", "problem", problem)
	}

	var artifact string
	if wf.Output == workflow.OutputLegacy {
		artifact, err = results.WriteLegacy(paths.TrialDir, res)
	} else {
		artifact, err = results.Write(paths.AnalysesDir, wf.ID, run.Timestamp, res)
	}
	if err != nil {
		return "", err
	}

	uploads := []string{artifact}
	if a.cfg.ArchiveEnabled() {
		// The legacy artifact is overwritten on every run, so its archive is too.
		if wf.Output == workflow.OutputLegacy {
			os.Remove(archive.Path(artifact)) //nolint:errcheck
		}
		if path, err := archive.Write(artifact, run.Outcomes); err != nil {
			slog.Warn("Could not archive raw responses", "artifact", artifact, "error", err)
		} else {
			uploads = append(uploads, path)
		}
	}

	if a.cfg.PublishEnabled() {
		publishArtifacts(ctx, a, trialID, uploads)
	}

	printSummary(out, wf, res, artifact)
	return artifact, nil
}

// newPublisher is replaced in tests.
var newPublisher = func(accountURL, container string) (artifactPublisher, error) {
	return publish.New(accountURL, container)
}

type artifactPublisher interface {
	Publish(ctx context.Context, trialID, artifact string) (string, error)
}

// publishArtifacts uploads every file; failures are only logged.
func publishArtifacts(ctx context.Context, a *app, trialID string, files []string) {
	blob := a.cfg.Publish.AzureBlob
	pub, err := newPublisher(blob.AccountURL, blob.Container)
	if err != nil {
		slog.Warn("Could not publish artifacts", "error", err)
		return
	}
	for _, f := range files {
		if name, err := pub.Publish(ctx, trialID, f); err != nil {
			slog.Warn("Could not publish artifact", "artifact", f, "error", err)
		} else {
			slog.Info("Published artifact", "container", blob.Container, "blob", name)
		}
	}
}
