package align

import (
	"mixterioso/internal/textnorm"
	"mixterioso/internal/words"
)

// DPAligner aligns the full lyric-token sequence against the full stream
// token sequence with edit-distance dynamic programming, then backtracks to
// per-line spans. O(L·T) time and space buys whole-song consistency, which
// makes it the batch strategy rather than the interactive one.
type DPAligner struct {
	opts Options
}

// NewDPAligner builds the global aligner.
func NewDPAligner(opts Options) *DPAligner {
	return &DPAligner{opts: opts.withDefaults()}
}

// Name implements Strategy.
func (a *DPAligner) Name() string { return StrategyDP }

// backtrack operations.
const (
	opMatch byte = iota + 1
	opSkipStream
	opSkipLine
)

// Align implements Strategy. Lines with zero recovered token matches are
// emitted unmatched at zero time; the repair pass places them.
func (a *DPAligner) Align(lines []Line, stream []words.Word) ([]AlignedLine, error) {
	if err := words.Validate(stream); err != nil {
		return nil, err
	}

	// Flatten lyric lines into tokens tagged with their originating line
	// position, and stream words into tokens tagged with their word index.
	type taggedToken struct {
		tok string
		src int
	}
	var lyric []taggedToken
	for pos, line := range lines {
		for _, tok := range textnorm.Tokens(line.Text) {
			lyric = append(lyric, taggedToken{tok: tok, src: pos})
		}
	}
	var trans []taggedToken
	for wi, w := range stream {
		for _, tok := range textnorm.Tokens(w.Text) {
			trans = append(trans, taggedToken{tok: tok, src: wi})
		}
	}

	l, t := len(lyric), len(trans)
	out := make([]AlignedLine, len(lines))
	for i, line := range lines {
		out[i] = AlignedLine{Index: line.Index, Text: line.Text}
	}
	if l == 0 || t == 0 {
		return out, nil
	}

	// cost[i][j] is the cheapest way to consume i lyric tokens and j stream
	// tokens; ops records the operation that achieved it. Ties prefer the
	// match operation to keep the alignment tight.
	width := t + 1
	cost := make([]int32, (l+1)*width)
	ops := make([]byte, (l+1)*width)
	for j := 1; j <= t; j++ {
		cost[j] = int32(j)
		ops[j] = opSkipStream
	}
	for i := 1; i <= l; i++ {
		row := i * width
		prev := row - width
		cost[row] = int32(i)
		ops[row] = opSkipLine
		for j := 1; j <= t; j++ {
			sub := cost[prev+j-1]
			if lyric[i-1].tok != trans[j-1].tok {
				sub++
			}
			best, op := sub, opMatch
			if c := cost[row+j-1] + 1; c < best {
				best, op = c, opSkipStream
			}
			if c := cost[prev+j] + 1; c < best {
				best, op = c, opSkipLine
			}
			cost[row+j] = best
			ops[row+j] = op
		}
	}

	// Backtrack, recording which stream word each lyric token landed on.
	// Only exact token matches count as hits; a substitution is evidence of
	// nothing in particular.
	hits := make(map[int][]int, len(lines))
	i, j := l, t
	for i > 0 || j > 0 {
		switch ops[i*width+j] {
		case opMatch:
			if lyric[i-1].tok == trans[j-1].tok {
				pos := lyric[i-1].src
				hits[pos] = append(hits[pos], trans[j-1].src)
			}
			i--
			j--
		case opSkipStream:
			j--
		default:
			i--
		}
	}

	for pos := range lines {
		wordIdxs := hits[pos]
		if len(wordIdxs) == 0 {
			continue
		}
		start, end := stream[wordIdxs[0]].Start, stream[wordIdxs[0]].End
		for _, wi := range wordIdxs[1:] {
			if stream[wi].Start < start {
				start = stream[wi].Start
			}
			if stream[wi].End > end {
				end = stream[wi].End
			}
		}
		total := len(textnorm.Tokens(lines[pos].Text))
		cover := 1.0
		if total > 0 {
			cover = float64(len(wordIdxs)) / float64(total)
			if cover > 1 {
				cover = 1
			}
		}
		out[pos].Start = start
		out[pos].End = end
		out[pos].Matched = true
		out[pos].Score = cover
	}
	return out, nil
}
