// Package timingcache persists alignment runs in a local SQLite database so
// previous timings can be listed, inspected, and reused without re-running
// the aligner.
package timingcache
