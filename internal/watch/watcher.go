package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mixterioso/internal/batch"
	"mixterioso/internal/config"
	"mixterioso/internal/logging"
	"mixterioso/internal/timingcache"
	"mixterioso/internal/timings"
)

// debounceDelay coalesces the burst of write events a transcript file
// generates while the producing tool is still flushing it.
const debounceDelay = 500 * time.Millisecond

// Watcher aligns songs on transcript arrival.
type Watcher struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *timingcache.Store

	mu      sync.Mutex
	pending map[string]*time.Timer

	// align is swappable for tests.
	align func(slug, transcriptPath string)
}

// New builds a watcher. The cache store is optional.
func New(cfg *config.Config, logger *slog.Logger, store *timingcache.Store) *Watcher {
	w := &Watcher{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "watch"),
		store:   store,
		pending: make(map[string]*time.Timer),
	}
	w.align = w.alignSong
	return w
}

// Run blocks watching the transcripts directory until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.cfg.EnsureDirectories(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Paths.TranscriptsDir); err != nil {
		return fmt.Errorf("watch %q: %w", w.cfg.Paths.TranscriptsDir, err)
	}

	w.logger.Info("watching for transcripts",
		logging.String("dir", w.cfg.Paths.TranscriptsDir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.HandleEvent(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// HandleEvent schedules an alignment for the changed path after a debounce
// window. Repeated events for the same file reset the window.
func (w *Watcher) HandleEvent(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".csv" {
		return
	}
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(debounceDelay)
		return
	}
	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.align(slug, path)
	})
}

func (w *Watcher) alignSong(slug, transcriptPath string) {
	lyricsPath := filepath.Join(w.cfg.Paths.LyricsDir, slug+".txt")
	if _, err := os.Stat(lyricsPath); err != nil {
		w.logger.Warn("transcript without lyrics",
			logging.String(logging.FieldSong, slug),
			logging.String("transcript", transcriptPath))
		return
	}

	result, _, err := batch.AlignSong(lyricsPath, transcriptPath, w.cfg.Alignment)
	if err != nil {
		w.logger.Error("alignment failed",
			logging.String(logging.FieldSong, slug),
			logging.Error(err))
		return
	}

	outPath := filepath.Join(w.cfg.Paths.TimingsDir, slug+".csv")
	if err := timings.WriteFile(outPath, result.Lines); err != nil {
		w.logger.Error("writing timings failed",
			logging.String(logging.FieldSong, slug),
			logging.Error(err))
		return
	}

	if w.store != nil {
		if _, err := w.store.SaveRun(context.Background(), slug, result); err != nil {
			w.logger.Warn("cache write failed",
				logging.String(logging.FieldSong, slug),
				logging.Error(err))
		}
	}

	w.logger.Info("song aligned",
		logging.String(logging.FieldSong, slug),
		logging.String(logging.FieldStrategy, result.Strategy),
		logging.Float64(logging.FieldCoverage, result.Coverage),
		logging.String("out", outPath))
}
