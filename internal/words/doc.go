// Package words models the recognized word stream consumed by the alignment
// engine: a read-only, time-ordered sequence of (text, start, end,
// confidence) records emitted by an ASR collaborator.
//
// The package also owns the boundary adapters that turn external transcript
// formats (WhisperX/faster-whisper word-timestamp JSON, word CSV exports)
// into the canonical Word record, keeping format variance out of the
// alignment algorithms.
package words
