// Package timings reads and writes timed lyric lines as CSV. The canonical
// layout carries a start and end timestamp per line; two older start-only
// layouts are still accepted on read so archived files keep working.
package timings
