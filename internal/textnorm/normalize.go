package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and strips combining marks, so "café"
// and "cafe" normalize identically. Scraped lyric sources disagree on
// accents far more often than singers do.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the input, folds accents, strips all characters
// except alphanumerics and apostrophes, and collapses whitespace runs to
// single spaces. Empty or punctuation-only input yields the empty string.
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens normalizes s and splits it into individual comparison tokens.
// Apostrophes survive inside a token ("don't") but never at its edges, so
// quote marks rendered as apostrophes do not leak into comparisons.
func Tokens(s string) []string {
	if s == "" {
		return nil
	}
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			b.WriteByte('\'')
		default:
			b.WriteByte(' ')
		}
	}
	fields := strings.Fields(b.String())
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
