package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mixterioso/internal/config"
	"mixterioso/internal/logging"
	"mixterioso/internal/timings"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LyricsDir = filepath.Join(base, "lyrics")
	cfg.Paths.TranscriptsDir = filepath.Join(base, "transcripts")
	cfg.Paths.TimingsDir = filepath.Join(base, "timings")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Cache.Enabled = false
	for _, dir := range []string{cfg.Paths.LyricsDir, cfg.Paths.TranscriptsDir, cfg.Paths.TimingsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return &cfg
}

func TestHandleEventIgnoresOtherExtensions(t *testing.T) {
	w := New(testConfig(t), logging.NewNop(), nil)
	called := false
	w.align = func(string, string) { called = true }

	w.HandleEvent("/tmp/song.wav")
	w.HandleEvent("/tmp/song.txt")
	time.Sleep(debounceDelay + 100*time.Millisecond)
	if called {
		t.Error("non-transcript extension triggered alignment")
	}
}

func TestHandleEventDebounces(t *testing.T) {
	w := New(testConfig(t), logging.NewNop(), nil)

	var (
		mu    sync.Mutex
		calls []string
	)
	w.align = func(slug, path string) {
		mu.Lock()
		calls = append(calls, slug)
		mu.Unlock()
	}

	// A burst of writes to the same file must collapse into one run.
	for i := 0; i < 5; i++ {
		w.HandleEvent("/tmp/transcripts/my_song.json")
	}
	time.Sleep(debounceDelay + 200*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "my_song" {
		t.Errorf("calls = %v, want one run for my_song", calls)
	}
}

func TestAlignSongEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Paths.LyricsDir, "tune.txt"), []byte("hello world\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	transcript := `{"segments":[{"words":[
		{"word":"hello","start":0.0,"end":0.4,"score":0.9},
		{"word":"world","start":0.5,"end":0.9,"score":0.9}
	]}]}`
	transcriptPath := filepath.Join(cfg.Paths.TranscriptsDir, "tune.json")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(cfg, logging.NewNop(), nil)
	w.alignSong("tune", transcriptPath)

	rows, err := timings.ReadFile(filepath.Join(cfg.Paths.TimingsDir, "tune.csv"))
	if err != nil {
		t.Fatalf("timings not written: %v", err)
	}
	if len(rows) != 1 || rows[0].Start != 0.0 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestAlignSongSkipsOrphanTranscript(t *testing.T) {
	cfg := testConfig(t)
	transcriptPath := filepath.Join(cfg.Paths.TranscriptsDir, "ghost.json")
	if err := os.WriteFile(transcriptPath, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(cfg, logging.NewNop(), nil)
	w.alignSong("ghost", transcriptPath)

	if _, err := os.Stat(filepath.Join(cfg.Paths.TimingsDir, "ghost.csv")); err == nil {
		t.Error("orphan transcript produced output")
	}
}
