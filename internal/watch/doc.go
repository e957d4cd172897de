// Package watch aligns songs as their transcripts land on disk. It observes
// the transcripts directory and runs the pipeline for each new or updated
// transcript whose lyric file already exists.
package watch
