// Package align maps reference lyric lines onto a recognized word stream.
//
// Two strategies are provided. The windowed fuzzy matcher walks the stream
// with a bounded forward cursor and is the interactive default; the global
// DP aligner trades O(L·T) work for whole-song consistency and suits batch
// processing. Both emit one AlignedLine per input line, and both hand their
// raw output to the shared repair pass, which fills unmatched lines by
// neighbor interpolation and enforces strictly non-decreasing start times.
//
// Alignment never fails on bad audio: low-coverage lines are marked
// unmatched and repaired, and only structural precondition violations (an
// unsorted word stream) surface as errors.
package align
