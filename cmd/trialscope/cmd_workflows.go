package main

import (
	"fmt"
	"strconv"

	"github.com/spboyer/trialscope/internal/orchestration"
	"github.com/spboyer/trialscope/internal/report"
	"github.com/spf13/cobra"
)

func newWorkflowsCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "List the registered analysis workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var rows [][]string
			for _, wf := range a.workflows.List() {
				s, err := orchestration.NewStrategy(wf)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					wf.ID,
					string(wf.Provider),
					wf.Model,
					string(wf.Strategy),
					strconv.Itoa(s.Passes()),
					report.Truncate(title(wf), 40),
				})
			}
			report.Table(out, []string{"ID", "PROVIDER", "MODEL", "STRATEGY", "PASSES", "TITLE"}, rows)

			if verbose {
				for _, wf := range a.workflows.List() {
					fmt.Fprintf(out, "\n%s\n  %s\n  prompt: %s\n", wf.ID, wf.Description, a.prompts().Path(wf.PromptID)) //nolint:errcheck
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and prompt files")
	return cmd
}
