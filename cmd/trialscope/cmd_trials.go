package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spboyer/trialscope/internal/report"
	"github.com/spboyer/trialscope/internal/results"
	"github.com/spf13/cobra"
)

func newTrialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trials",
		Short: "List trials and their analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			layout := a.layout()
			ids, err := layout.ListTrials()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(out, "No trials found in %s\n", layout.TrialsDir) //nolint:errcheck
				return nil
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				paths, err := layout.Resolve(id)
				if err != nil {
					return err
				}
				transcript := "✓"
				if _, err := os.Stat(paths.Transcript); errors.Is(err, os.ErrNotExist) {
					transcript = "✗"
				}
				files, err := paths.ListAnalyses()
				if err != nil {
					return err
				}
				latest := "-"
				if len(files) > 0 {
					if res, err := results.Load(files[len(files)-1]); err == nil {
						latest = fmt.Sprintf("%s (%d issues)", res.AnalysisMethod, len(res.Issues))
					}
				}
				rows = append(rows, []string{id, transcript, strconv.Itoa(len(files)), latest})
			}
			report.Table(out, []string{"TRIAL", "TRANSCRIPT", "ANALYSES", "LATEST"}, rows)
			return nil
		},
	}
}
