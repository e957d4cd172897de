package config

const (
	defaultLyricsDir      = "~/.local/share/mixterioso/lyrics"
	defaultTranscriptsDir = "~/.local/share/mixterioso/transcripts"
	defaultTimingsDir     = "~/.local/share/mixterioso/timings"
	defaultCacheDir       = "~/.cache/mixterioso"
	defaultLogDir         = "~/.local/share/mixterioso/logs"

	defaultStrategy        = "auto"
	defaultSearchAhead     = 400
	defaultSkipMax         = 6
	defaultMinCover        = 0.55
	defaultChainGate       = 0.5
	defaultFixedGapSecs    = 0.3
	defaultMinLineDuration = 2.5

	defaultBatchWorkers = 4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LyricsDir:      defaultLyricsDir,
			TranscriptsDir: defaultTranscriptsDir,
			TimingsDir:     defaultTimingsDir,
			CacheDir:       defaultCacheDir,
			LogDir:         defaultLogDir,
		},
		Alignment: Alignment{
			Strategy:            defaultStrategy,
			SearchAhead:         defaultSearchAhead,
			SkipMax:             defaultSkipMax,
			MinCover:            defaultMinCover,
			ChainGate:           defaultChainGate,
			FixedGapSecs:        defaultFixedGapSecs,
			MinLineDurationSecs: defaultMinLineDuration,
			DropHeaderLines:     true,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
