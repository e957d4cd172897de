// Package batch aligns a directory of songs in parallel, pairing lyric
// files with their transcripts by slug and writing one timings CSV per
// song.
package batch
