package align

import (
	"mixterioso/internal/textnorm"
	"mixterioso/internal/words"
)

// WindowedMatcher aligns one lyric line at a time against a bounded forward
// window of the word stream. It is the default strategy: cheap, cursor
// driven, and tolerant of ASR insertions through skip-limited token walks.
type WindowedMatcher struct {
	opts Options
}

// NewWindowedMatcher builds a matcher with the given tuning. The cursor
// lives on the per-call run state, so one matcher may serve concurrent
// alignment calls for independent songs.
func NewWindowedMatcher(opts Options) *WindowedMatcher {
	return &WindowedMatcher{opts: opts.withDefaults()}
}

// Name implements Strategy.
func (m *WindowedMatcher) Name() string { return StrategyWindowed }

// Align produces a raw per-line timestamp list. Lines without an acceptable
// span carry Matched=false and a provisional timestamp for the repair pass.
// The only possible error is a structural precondition violation in the
// word stream.
func (m *WindowedMatcher) Align(lines []Line, stream []words.Word) ([]AlignedLine, error) {
	if err := words.Validate(stream); err != nil {
		return nil, err
	}

	run := &windowedRun{
		opts:   m.opts,
		stream: stream,
		toks:   firstTokens(stream),
	}
	return run.align(lines), nil
}

// windowedRun owns the mutable cursor state for a single alignment call.
type windowedRun struct {
	opts      Options
	stream    []words.Word
	toks      []string
	cursor    int
	resetUsed bool
}

type span struct {
	cover  float64
	score  float64
	anchor int
	last   int
}

func (r *windowedRun) align(lines []Line) []AlignedLine {
	out := make([]AlignedLine, 0, len(lines))

	lineToks := make([][]string, len(lines))
	for i, line := range lines {
		lineToks[i] = textnorm.Tokens(line.Text)
	}

	for i, line := range lines {
		toks := lineToks[i]
		if len(toks) == 0 {
			out = append(out, r.placeholder(line, out))
			continue
		}

		// A header line (title/attribution block) may rewind the cursor to
		// the stream start once per document; intros are often sung out of
		// the main temporal sequence. Output ordering is still guaranteed
		// by the repair pass.
		if r.opts.HeaderLine != nil && !r.resetUsed && r.opts.HeaderLine(line.Text) {
			r.cursor = 0
			r.resetUsed = true
		}

		var nextFirst string
		for j := i + 1; j < len(lines); j++ {
			if len(lineToks[j]) > 0 {
				nextFirst = lineToks[j][0]
				break
			}
		}

		best, ok := r.search(toks, nextFirst)
		if !ok || best.cover < r.opts.MinCover {
			out = append(out, r.placeholder(line, out))
			continue
		}

		out = append(out, AlignedLine{
			Index:   line.Index,
			Start:   r.stream[best.anchor].Start,
			End:     r.stream[best.last].End,
			Text:    line.Text,
			Matched: true,
			Score:   best.cover,
		})
		// Advance past the span, bounded so a spurious far-ahead match
		// cannot drag the cursor out of reach of the next line.
		r.cursor = min(best.last+1, best.anchor+r.opts.SearchAhead)
	}
	return out
}

// search scans forward from the cursor for the best skip-tolerant span
// covering the line tokens.
func (r *windowedRun) search(toks []string, nextFirst string) (span, bool) {
	window := min(len(r.toks), r.cursor+r.opts.SearchAhead)
	var best span
	found := false

	for k := r.cursor; k < window; k++ {
		if r.toks[k] != toks[0] {
			continue
		}
		matched, j, last := 1, k+1, k
		for matched < len(toks) && j < len(r.toks) {
			hopped := 0
			for j < len(r.toks) && r.toks[j] != toks[matched] && hopped < r.opts.SkipMax {
				j++
				hopped++
			}
			if j < len(r.toks) && r.toks[j] == toks[matched] {
				last = j
				matched++
				j++
			} else {
				break
			}
		}

		cover := float64(matched) / float64(len(toks))
		score := cover
		if k == r.cursor {
			score += r.opts.ContinuityBonus
		}
		if nextFirst != "" && last+1 < len(r.toks) && r.toks[last+1] == nextFirst {
			score += r.opts.NextLineBonus
		}

		if !found || score > best.score {
			best = span{cover: cover, score: score, anchor: k, last: last}
			found = true
		}
		if cover >= shortCircuitCover {
			break
		}
	}
	return best, found
}

// placeholder pins an unmatched line at the previous line's end time, or
// the stream's first timestamp when nothing has been emitted yet. The
// repair pass replaces these provisional values.
func (r *windowedRun) placeholder(line Line, out []AlignedLine) AlignedLine {
	at := 0.0
	if len(out) > 0 {
		at = out[len(out)-1].End
	} else if len(r.stream) > 0 {
		at = r.stream[0].Start
	}
	return AlignedLine{Index: line.Index, Start: at, End: at, Text: line.Text}
}

// firstTokens reduces each stream word to its first normalized token, the
// comparison unit used by the windowed scan.
func firstTokens(stream []words.Word) []string {
	out := make([]string, len(stream))
	for i, w := range stream {
		if toks := textnorm.Tokens(w.Text); len(toks) > 0 {
			out[i] = toks[0]
		}
	}
	return out
}
