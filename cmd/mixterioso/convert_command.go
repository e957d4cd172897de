package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mixterioso/internal/timings"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "convert <timings.csv>",
		Short: "Rewrite a legacy timings CSV into the canonical start/end layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath := strings.TrimSpace(args[0])
			if inPath == "" {
				return errors.New("input path is required")
			}

			rows, err := timings.ReadFile(inPath)
			if err != nil {
				return err
			}

			if outPath == "" {
				ext := filepath.Ext(inPath)
				outPath = strings.TrimSuffix(inPath, ext) + ".canonical" + ext
			}
			if err := timings.WriteFile(outPath, rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d lines to %s\n", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (default <input>.canonical.csv)")
	return cmd
}
