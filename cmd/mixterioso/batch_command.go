package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mixterioso/internal/batch"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Align every paired song under the configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Batch.Workers = workers
			}

			store, err := ctx.openStore()
			if err != nil {
				logger.Warn("timing cache unavailable", "error", err)
			}
			if store != nil {
				defer store.Close()
			}

			runner := batch.NewRunner(cfg, logger, store)
			results, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					rows = append(rows, []string{res.Slug, "-", "-", "-", res.Err.Error()})
					continue
				}
				rows = append(rows, []string{
					res.Slug,
					res.Strategy,
					fmt.Sprintf("%.0f%%", res.Coverage*100),
					fmt.Sprintf("%d", res.Lines),
					res.OutPath,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Song", "Strategy", "Coverage", "Lines", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
			fmt.Fprintf(out, "%d songs aligned, %d failed\n", len(results)-failed, failed)

			if failed > 0 {
				return fmt.Errorf("%d of %d songs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	return cmd
}
