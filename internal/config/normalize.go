package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAlignment()
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultBatchWorkers
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LyricsDir, err = expandPath(c.Paths.LyricsDir); err != nil {
		return fmt.Errorf("paths.lyrics_dir: %w", err)
	}
	if c.Paths.TranscriptsDir, err = expandPath(c.Paths.TranscriptsDir); err != nil {
		return fmt.Errorf("paths.transcripts_dir: %w", err)
	}
	if c.Paths.TimingsDir, err = expandPath(c.Paths.TimingsDir); err != nil {
		return fmt.Errorf("paths.timings_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAlignment() {
	c.Alignment.Strategy = strings.ToLower(strings.TrimSpace(c.Alignment.Strategy))
	if c.Alignment.Strategy == "" {
		c.Alignment.Strategy = defaultStrategy
	}
	if c.Alignment.SearchAhead <= 0 {
		c.Alignment.SearchAhead = defaultSearchAhead
	}
	if c.Alignment.SkipMax <= 0 {
		c.Alignment.SkipMax = defaultSkipMax
	}
	if c.Alignment.MinCover <= 0 {
		c.Alignment.MinCover = defaultMinCover
	}
	if c.Alignment.ChainGate <= 0 {
		c.Alignment.ChainGate = defaultChainGate
	}
	if c.Alignment.FixedGapSecs <= 0 {
		c.Alignment.FixedGapSecs = defaultFixedGapSecs
	}
	if c.Alignment.MinLineDurationSecs <= 0 {
		c.Alignment.MinLineDurationSecs = defaultMinLineDuration
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
