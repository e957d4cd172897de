package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mixterioso/internal/config"
	"mixterioso/internal/logging"
	"mixterioso/internal/lyrics"
	"mixterioso/internal/timingcache"
	"mixterioso/internal/timings"
)

// Pair is one lyric file matched with its transcript.
type Pair struct {
	Slug       string
	LyricsPath string
	WordsPath  string
}

// SongResult reports the outcome of aligning one song in a batch.
type SongResult struct {
	Slug     string
	Strategy string
	Coverage float64
	Lines    int
	OutPath  string
	Err      error
}

// Runner aligns every paired song under the configured directories.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *timingcache.Store
}

// NewRunner builds a batch runner. The cache store is optional.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *timingcache.Store) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "batch"),
		store:  store,
	}
}

// DiscoverPairs scans the lyrics directory for .txt files and pairs each
// with a transcript of the same slug. Lyric files without a transcript are
// skipped with a warning.
func (r *Runner) DiscoverPairs() ([]Pair, error) {
	entries, err := os.ReadDir(r.cfg.Paths.LyricsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning lyrics directory: %w", err)
	}

	var pairs []Pair
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		lyricsPath := filepath.Join(r.cfg.Paths.LyricsDir, entry.Name())
		slug := lyrics.SlugFromPath(lyricsPath)

		wordsPath, ok := r.findTranscript(slug)
		if !ok {
			r.logger.Warn("no transcript for lyrics file",
				logging.String(logging.FieldSong, slug),
				logging.String("lyrics", lyricsPath))
			continue
		}
		pairs = append(pairs, Pair{Slug: slug, LyricsPath: lyricsPath, WordsPath: wordsPath})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Slug < pairs[j].Slug })
	return pairs, nil
}

func (r *Runner) findTranscript(slug string) (string, bool) {
	for _, ext := range []string{".json", ".csv"} {
		path := filepath.Join(r.cfg.Paths.TranscriptsDir, slug+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Run aligns all discovered pairs with the configured worker count and
// writes one timings CSV per song. A second concurrent batch run against
// the same timings directory is refused via a file lock. Per-song failures
// are reported in the results, not as a run error.
func (r *Runner) Run(ctx context.Context) ([]SongResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.TimingsDir, ".batch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another batch run is already writing to %s", r.cfg.Paths.TimingsDir)
	}
	defer func() { _ = lock.Unlock() }()

	pairs, err := r.DiscoverPairs()
	if err != nil {
		return nil, err
	}

	session := uuid.NewString()
	r.logger.Info("batch run started",
		logging.String("session", session),
		logging.Int("songs", len(pairs)),
		logging.Int("workers", r.cfg.Batch.Workers))

	results := make([]SongResult, len(pairs))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Batch.Workers)
	for i, pair := range pairs {
		i, pair := i, pair
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.alignOne(ctx, pair)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.logger.Info("batch run finished",
		logging.String("session", session),
		logging.Int("songs", len(results)),
		logging.Int("failed", failed))
	return results, nil
}

func (r *Runner) alignOne(ctx context.Context, pair Pair) SongResult {
	res := SongResult{Slug: pair.Slug}

	result, _, err := AlignSong(pair.LyricsPath, pair.WordsPath, r.cfg.Alignment)
	if err != nil {
		res.Err = err
		r.logger.Error("alignment failed",
			logging.String(logging.FieldSong, pair.Slug),
			logging.Error(err))
		return res
	}

	outPath := filepath.Join(r.cfg.Paths.TimingsDir, pair.Slug+".csv")
	if err := timings.WriteFile(outPath, result.Lines); err != nil {
		res.Err = err
		return res
	}

	if r.store != nil {
		if _, err := r.store.SaveRun(ctx, pair.Slug, result); err != nil {
			r.logger.Warn("cache write failed",
				logging.String(logging.FieldSong, pair.Slug),
				logging.Error(err))
		}
	}

	res.Strategy = result.Strategy
	res.Coverage = result.Coverage
	res.Lines = len(result.Lines)
	res.OutPath = outPath
	r.logger.Info("song aligned",
		logging.String(logging.FieldSong, pair.Slug),
		logging.String(logging.FieldStrategy, result.Strategy),
		logging.Float64(logging.FieldCoverage, result.Coverage),
		logging.Int("lines", len(result.Lines)))
	return res
}
