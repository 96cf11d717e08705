package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/trialscope/internal/orchestration"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/report"
	"github.com/spf13/cobra"
)

// newCacheClient is replaced in tests.
var newCacheClient = func(cmd *cobra.Command, a *app) (provider.CacheClient, error) {
	return newGeminiClient(cmd.Context(), a.cfg, "")
}

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage Gemini context caches left by theme runs",
		Long: `Manage the Gemini context caches created by theme-by-theme runs.

A theme run deletes its cache when it finishes. When that fails the cache
lives until its TTL expires; these commands find and remove such leftovers.
Only caches whose display name starts with "` + orchestration.CacheDisplayPrefix + `" are touched.`,
	}

	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCachePruneCommand())

	return cmd
}

func leftoverCaches(cmd *cobra.Command) (provider.CacheClient, []*provider.Cache, error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	client, err := newCacheClient(cmd, a)
	if err != nil {
		return nil, nil, err
	}
	all, err := client.ListCaches(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("listing caches: %w", err)
	}
	var ours []*provider.Cache
	for _, c := range all {
		if strings.HasPrefix(c.DisplayName, orchestration.CacheDisplayPrefix) {
			ours = append(ours, c)
		}
	}
	return client, ours, nil
}

func newCacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List leftover analysis caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, caches, err := leftoverCaches(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(caches) == 0 {
				fmt.Fprintln(out, "No analysis caches found") //nolint:errcheck
				return nil
			}
			rows := make([][]string, 0, len(caches))
			for _, c := range caches {
				expires := "-"
				if !c.ExpireTime.IsZero() {
					expires = c.ExpireTime.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{c.Name, c.DisplayName, c.Model, expires})
			}
			report.Table(out, []string{"NAME", "DISPLAY NAME", "MODEL", "EXPIRES"}, rows)
			return nil
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete leftover analysis caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, caches, err := leftoverCaches(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			deleted := 0
			for _, c := range caches {
				if dryRun {
					fmt.Fprintf(out, "Would delete %s (%s)\n", c.Name, c.DisplayName) //nolint:errcheck
					continue
				}
				if err := client.DeleteCache(cmd.Context(), c.Name); err != nil {
					fmt.Fprintf(out, "⚠ Could not delete %s: %v\n", c.Name, err) //nolint:errcheck
					continue
				}
				deleted++
				fmt.Fprintf(out, "✓ Deleted %s\n", c.Name) //nolint:errcheck
			}
			if !dryRun {
				fmt.Fprintf(out, "Deleted %d of %d cache(s)\n", deleted, len(caches)) //nolint:errcheck
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only show what would be deleted")
	return cmd
}
