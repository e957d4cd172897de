package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mixterioso/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Align songs as transcripts arrive in the transcripts directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				logger.Warn("timing cache unavailable", "error", err)
			}
			if store != nil {
				defer store.Close()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := watch.New(cfg, logger, store)
			return watcher.Run(runCtx)
		},
	}
}
