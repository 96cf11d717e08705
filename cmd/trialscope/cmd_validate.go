package main

import (
	"fmt"

	"github.com/spboyer/trialscope/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <analysis.json>...",
		Short: "Check analysis artifacts against the analysis schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				problems, err := validation.ValidateFile(path)
				if err != nil {
					return err
				}
				if len(problems) == 0 {
					fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
					continue
				}
				invalid++
				fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
				for _, p := range problems {
					fmt.Fprintf(out, "    %s\n", p) //nolint:errcheck
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", invalid, len(args))
			}
			return nil
		},
	}
}
