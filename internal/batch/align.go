package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"mixterioso/internal/align"
	"mixterioso/internal/config"
	"mixterioso/internal/lyrics"
	"mixterioso/internal/words"
)

// OptionsFromConfig translates the alignment config section into engine
// options.
func OptionsFromConfig(cfg config.Alignment) align.Options {
	opts := align.Options{
		Strategy:        cfg.Strategy,
		SearchAhead:     cfg.SearchAhead,
		SkipMax:         cfg.SkipMax,
		MinCover:        cfg.MinCover,
		ContinuityBonus: cfg.ContinuityBonus,
		NextLineBonus:   cfg.NextLineBonus,
		ChainGate:       cfg.ChainGate,
		FixedGap:        cfg.FixedGapSecs,
		MinLineDuration: cfg.MinLineDurationSecs,
	}
	// When header lines are kept they still get the one-time cursor reset
	// treatment; when dropped the hook has nothing to act on.
	if !cfg.DropHeaderLines {
		opts.HeaderLine = lyrics.IsHeader
	}
	return opts
}

// AlignSong runs the full pipeline for one song: load lyrics, parse the
// transcript, align, and return the repaired result with the song's slug.
func AlignSong(lyricsPath, transcriptPath string, cfg config.Alignment) (align.Result, string, error) {
	doc, err := lyrics.Load(lyricsPath)
	if err != nil {
		return align.Result{}, "", err
	}
	if cfg.DropHeaderLines {
		doc = doc.DropHeaders()
	}

	stream, err := loadTranscript(transcriptPath)
	if err != nil {
		return align.Result{}, doc.Slug, err
	}

	result, err := align.Run(doc.Lines, stream, OptionsFromConfig(cfg))
	if err != nil {
		return align.Result{}, doc.Slug, fmt.Errorf("aligning %s: %w", doc.Slug, err)
	}
	return result, doc.Slug, nil
}

// loadTranscript parses a word stream by file extension: WhisperX JSON or
// word-level CSV.
func loadTranscript(path string) ([]words.Word, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return words.LoadWhisperJSON(path)
	case ".csv":
		return words.LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported transcript format %q", filepath.Ext(path))
	}
}
