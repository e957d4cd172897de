package words

import (
	"errors"
	"fmt"
)

// ErrNonMonotonic reports a word stream that is not sorted by start time.
// Every downstream algorithm assumes sorted input, so this is a structural
// precondition violation rather than a recoverable matching failure.
var ErrNonMonotonic = errors.New("word stream not sorted by start time")

// Word is one recognized word with its timing and confidence. Instances are
// immutable for the duration of an alignment call.
type Word struct {
	Text       string
	Start      float64
	End        float64
	Confidence float64
}

// Validate checks the structural preconditions the alignment engine relies
// on: start times non-decreasing and end never before start. An empty stream
// is valid; the engine degrades to linear spacing in that case.
func Validate(stream []Word) error {
	for i, w := range stream {
		if w.End < w.Start {
			return fmt.Errorf("word %d (%q): end %.3f before start %.3f", i, w.Text, w.End, w.Start)
		}
		if i > 0 && w.Start < stream[i-1].Start {
			return fmt.Errorf("%w: word %d (%q) starts at %.3f after %.3f", ErrNonMonotonic, i, w.Text, w.Start, stream[i-1].Start)
		}
	}
	return nil
}

// Duration returns the time span covered by the stream, zero when empty.
func Duration(stream []Word) float64 {
	if len(stream) == 0 {
		return 0
	}
	return stream[len(stream)-1].End - stream[0].Start
}
