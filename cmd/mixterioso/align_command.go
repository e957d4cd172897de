package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mixterioso/internal/align"
	"mixterioso/internal/batch"
	"mixterioso/internal/timings"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		lyricsPath     string
		wordsPath      string
		outPath        string
		strategy       string
		searchAhead    int
		skipMax        int
		minCover       float64
		keepHeaders    bool
		skipCache      bool
		printAlignment bool
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align one lyric file against its transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lyricsPath == "" || wordsPath == "" {
				return errors.New("--lyrics and --words are required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			acfg := cfg.Alignment
			if strategy != "" {
				acfg.Strategy = strategy
			}
			if searchAhead > 0 {
				acfg.SearchAhead = searchAhead
			}
			if skipMax >= 0 {
				acfg.SkipMax = skipMax
			}
			if minCover > 0 {
				acfg.MinCover = minCover
			}
			if keepHeaders {
				acfg.DropHeaderLines = false
			}

			result, slug, err := batch.AlignSong(lyricsPath, wordsPath, acfg)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = slug + ".csv"
			}
			if err := writeResult(outPath, result.Lines); err != nil {
				return err
			}

			if !skipCache {
				store, err := ctx.openStore()
				if err != nil {
					logger.Warn("timing cache unavailable", "error", err)
				} else if store != nil {
					defer store.Close()
					if _, err := store.SaveRun(context.Background(), slug, result); err != nil {
						logger.Warn("cache write failed", "error", err)
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Aligned %s: %d lines, strategy %s, coverage %.0f%%\n",
				slug, len(result.Lines), result.Strategy, result.Coverage*100)
			fmt.Fprintf(out, "Wrote %s\n", outPath)

			if printAlignment {
				fmt.Fprintln(out, renderAlignmentTable(out, result))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lyricsPath, "lyrics", "", "Lyric text file")
	cmd.Flags().StringVar(&wordsPath, "words", "", "Transcript file (.json or .csv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (.csv or .json, default <slug>.csv)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Alignment strategy (windowed, dp, auto)")
	cmd.Flags().IntVar(&searchAhead, "search-ahead", 0, "Forward window size in stream tokens")
	cmd.Flags().IntVar(&skipMax, "skip-max", -1, "Tolerated insertions between matched tokens")
	cmd.Flags().Float64Var(&minCover, "min-cover", 0, "Minimum coverage to accept a windowed span")
	cmd.Flags().BoolVar(&keepHeaders, "keep-headers", false, "Align title/attribution lines instead of dropping them")
	cmd.Flags().BoolVar(&skipCache, "no-cache", false, "Do not record this run in the timing cache")
	cmd.Flags().BoolVar(&printAlignment, "print", false, "Print the per-line alignment table")

	return cmd
}

// writeResult emits CSV or JSON depending on the output extension.
func writeResult(path string, rows []align.AlignedLine) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding timings: %w", err)
		}
		return os.WriteFile(path, append(data, '\n'), 0o644)
	}
	return timings.WriteFile(path, rows)
}

func renderAlignmentTable(out io.Writer, result align.Result) string {
	rows := make([][]string, 0, len(result.Lines))
	for _, line := range result.Lines {
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
	return renderTable(out,
		[]string{"#", "Start", "End", "Score", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft})
}
