package lyrics

import (
	"fmt"
	"os"
	"strings"

	"mixterioso/internal/align"
)

// headerMarkers are the explicit attribution separators some lyric sources
// embed in a title line, e.g. "Song Name//by//Artist".
var headerMarkers = []string{"//by//", "/by/"}

// maxHeaderWords bounds the "Title by Artist" heuristic; genuine lyric lines
// containing the word "by" are almost always longer than this.
const maxHeaderWords = 8

// Document is a parsed lyric file. Lines preserves the original ordering
// including blanks; Slug is derived from the source filename when loaded
// from disk.
type Document struct {
	Lines []align.Line
	Slug  string
}

// Parse splits raw lyric text into indexed lines. Byte-order marks and
// zero-width characters are stripped so copy-pasted web lyrics normalize
// cleanly; blank lines are kept as positional placeholders.
func Parse(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	// Trailing newline produces one empty tail entry, not a lyric line.
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1]
	}

	lines := make([]align.Line, 0, len(raw))
	for i, s := range raw {
		lines = append(lines, align.Line{Index: i, Text: cleanLine(s)})
	}
	return Document{Lines: lines}
}

// Load reads and parses a lyric file, deriving the document slug from the
// file name.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading lyrics: %w", err)
	}
	doc := Parse(string(data))
	doc.Slug = SlugFromPath(path)
	return doc, nil
}

// IsHeader reports whether a lyric line is a title or attribution block
// rather than sung content. Explicit "//by//" markers always qualify; a
// short "Title by Artist" line does too.
func IsHeader(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return false
	}
	for _, marker := range headerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	fields := strings.Fields(lower)
	if len(fields) > maxHeaderWords {
		return false
	}
	for i, f := range fields {
		if f == "by" && i > 0 && i < len(fields)-1 {
			return true
		}
	}
	return false
}

// DropHeaders returns a copy of the document without header lines. Indexes
// of the surviving lines are preserved so output rows still refer to the
// original document positions.
func (d Document) DropHeaders() Document {
	out := Document{Slug: d.Slug, Lines: make([]align.Line, 0, len(d.Lines))}
	for _, line := range d.Lines {
		if IsHeader(line.Text) {
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

// invisibles strips the BOM and zero-width characters that leak in from web
// sources.
var invisibles = strings.NewReplacer(
	"\ufeff", "",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
)

func cleanLine(s string) string {
	return invisibles.Replace(strings.TrimRight(s, "\r"))
}
