package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mixterioso/internal/timingcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the timing run cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCacheListCommand(ctx))
	cmd.AddCommand(newCacheShowCommand(ctx))
	cmd.AddCommand(newCacheClearCommand(ctx))
	return cmd
}

// requireStore opens the cache regardless of the enabled flag so maintenance
// commands work even when new writes are off.
func requireStore(ctx *commandContext) (*timingcache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return timingcache.Open(cfg.Paths.CacheDir)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached alignment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No cached runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.Slug,
					run.Strategy,
					fmt.Sprintf("%.0f%%", run.Coverage*100),
					fmt.Sprintf("%d", run.LineCount),
					run.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Song", "Strategy", "Coverage", "Lines", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <song>",
		Short: "Show the latest cached run for a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Latest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: strategy %s, coverage %.0f%%, %d lines, %s\n",
				run.Slug, run.Strategy, run.Coverage*100, run.LineCount,
				run.CreatedAt.Local().Format(time.DateTime))

			rows := make([][]string, 0, len(run.Lines))
			for _, line := range run.Lines {
				matched := ""
				if line.Matched {
					matched = fmt.Sprintf("%.2f", line.Score)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", line.Index),
					fmt.Sprintf("%.3f", line.Start),
					fmt.Sprintf("%.3f", line.End),
					matched,
					line.Text,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Start", "End", "Score", "Text"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [song]",
		Short: "Remove cached runs for one song, or everything with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := ""
			if len(args) == 1 {
				slug = args[0]
			}
			if slug == "" && !all {
				return errors.New("pass a song slug or --all")
			}

			store, err := requireStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context(), slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached runs\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every cached run")
	return cmd
}
