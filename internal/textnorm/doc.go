// Package textnorm canonicalizes lyric and transcript text into comparable
// tokens.
//
// Both alignment strategies score candidate matches by repeatedly normalizing
// the same strings, so Normalize must be pure and deterministic: lowercase,
// accent-folded, stripped of everything except alphanumerics and contraction
// apostrophes, with internal whitespace collapsed to single spaces.
package textnorm
