package lyrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePreservesBlankLines(t *testing.T) {
	doc := Parse("first verse\n\nsecond verse\n")
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[1].Text != "" {
		t.Errorf("line 1 = %q, want blank", doc.Lines[1].Text)
	}
	for i, line := range doc.Lines {
		if line.Index != i {
			t.Errorf("line %d carries index %d", i, line.Index)
		}
	}
}

func TestParseStripsInvisibleCharacters(t *testing.T) {
	doc := Parse("\ufeffhello\u200b world\r\nnext")
	if doc.Lines[0].Text != "hello world" {
		t.Errorf("line 0 = %q, want %q", doc.Lines[0].Text, "hello world")
	}
	if doc.Lines[1].Text != "next" {
		t.Errorf("line 1 = %q, want %q", doc.Lines[1].Text, "next")
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"My Song//by//Some Artist", true},
		{"My Song /by/ Some Artist", true},
		{"Bohemian Rhapsody by Queen", true},
		{"standing by the river where we used to sing together", false},
		{"by the way", false},     // leading "by" is lyric content
		{"driven by", false},      // trailing "by" too
		{"", false},
		{"plain lyric line", false},
	}
	for _, tc := range tests {
		if got := IsHeader(tc.line); got != tc.want {
			t.Errorf("IsHeader(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestDropHeadersKeepsIndexes(t *testing.T) {
	doc := Parse("My Song//by//Artist\nfirst line\n\nsecond line\n")
	kept := doc.DropHeaders()
	if len(kept.Lines) != 3 {
		t.Fatalf("expected 3 lines after drop, got %d", len(kept.Lines))
	}
	if kept.Lines[0].Index != 1 || kept.Lines[0].Text != "first line" {
		t.Errorf("first kept line = %+v, want original index 1", kept.Lines[0])
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bohemian Rhapsody", "bohemian_rhapsody"},
		{"Don't Stop Me Now!", "don_t_stop_me_now"},
		{"  99 Luftballons  ", "99_luftballons"},
		{"---", "song"},
		{"", "song"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadDerivesSlug(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "My Song.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Slug != "my_song" {
		t.Errorf("slug = %q, want %q", doc.Slug, "my_song")
	}
	if len(doc.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(doc.Lines))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
