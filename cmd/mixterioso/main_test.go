package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mixterioso/internal/timings"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	for _, dir := range []string{"lyrics", "transcripts", "timings", "cache", "logs"} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`
[paths]
lyrics_dir = %q
transcripts_dir = %q
timings_dir = %q
cache_dir = %q
log_dir = %q

[cache]
enabled = false
`,
		filepath.Join(base, "lyrics"),
		filepath.Join(base, "transcripts"),
		filepath.Join(base, "timings"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Strategy:")
}

func TestAlignCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	lyricsPath := filepath.Join(env.baseDir, "lyrics", "demo.txt")
	if err := os.WriteFile(lyricsPath, []byte("hello world\nfoo bar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wordsPath := filepath.Join(env.baseDir, "transcripts", "demo.json")
	transcript := `{"segments":[{"words":[
		{"word":"hello","start":0.0,"end":0.4,"score":0.9},
		{"word":"world","start":0.5,"end":0.9,"score":0.9},
		{"word":"foo","start":5.0,"end":5.4,"score":0.9},
		{"word":"bar","start":5.5,"end":5.9,"score":0.9}
	]}]}`
	if err := os.WriteFile(wordsPath, []byte(transcript), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(env.baseDir, "timings", "demo.csv")

	out, err := runCLI(t, []string{
		"align", "--lyrics", lyricsPath, "--words", wordsPath, "--out", outPath, "--no-cache",
	}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v\n%s", err, out)
	}
	requireContains(t, out, "Aligned demo")

	rows, err := timings.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 2 || rows[0].Start != 0.0 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestAlignCommandRequiresInputs(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"align"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without --lyrics/--words")
	}
}

func TestBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.WriteFile(filepath.Join(env.baseDir, "lyrics", "tune.txt"), []byte("la la\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	transcript := `{"segments":[{"words":[
		{"word":"la","start":1.0,"end":1.2,"score":0.9},
		{"word":"la","start":1.3,"end":1.5,"score":0.9}
	]}]}`
	if err := os.WriteFile(filepath.Join(env.baseDir, "transcripts", "tune.json"), []byte(transcript), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, []string{"batch"}, env.configPath)
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	requireContains(t, out, "1 songs aligned, 0 failed")

	if _, err := os.Stat(filepath.Join(env.baseDir, "timings", "tune.csv")); err != nil {
		t.Errorf("timings not written: %v", err)
	}
}

func TestConvertCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	legacy := "line_index,time_secs,text\n0,1.000,first\n1,4.000,second\n"
	inPath := filepath.Join(env.baseDir, "legacy.csv")
	if err := os.WriteFile(inPath, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, []string{"convert", inPath}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}
	requireContains(t, out, "Converted 2 lines")

	rows, err := timings.ReadFile(filepath.Join(env.baseDir, "legacy.canonical.csv"))
	if err != nil {
		t.Fatalf("read converted: %v", err)
	}
	if len(rows) != 2 || rows[0].End != 4.0 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestCacheClearRequiresTarget(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without slug or --all")
	}
}
