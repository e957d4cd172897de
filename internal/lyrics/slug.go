package lyrics

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Slugify lowers a song title into a filesystem-safe identifier: runs of
// non-alphanumeric characters collapse to a single underscore. An input with
// no usable characters yields "song".
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return "song"
	}
	return b.String()
}

// SlugFromPath derives the slug from a file path's base name without its
// extension.
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}
