package main

import (
	"fmt"
	"os"

	"github.com/spboyer/trialscope/internal/report"
	"github.com/spboyer/trialscope/internal/results"
	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var (
		html   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "report <analysis.json>",
		Short: "Render an analysis artifact as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := results.Load(args[0])
			if err != nil {
				return err
			}

			var data []byte
			if html {
				if data, err = report.HTML(res); err != nil {
					return err
				}
			} else {
				data = []byte(report.Markdown(res))
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output) //nolint:errcheck
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file")
	return cmd
}
