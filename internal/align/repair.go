package align

// fallbackLineDur is the provisional duration given to unmatched lines
// nudged off a single matched neighbor.
const fallbackLineDur = 1.0

// Repair fills unmatched lines by neighbor interpolation and enforces the
// strictly non-decreasing ordering invariant on the result. It is shared by
// both strategies and is idempotent: unmatched lines are always recomputed
// from the matched anchors alone, so running the pass on its own output
// reproduces it exactly. A run before the first anchor marches backward
// from it in fixed-gap steps, so the run's last line ends, rather than
// starts, one gap ahead of the anchor.
func Repair(rows []AlignedLine, opts Options) []AlignedLine {
	opts = opts.withDefaults()
	out := make([]AlignedLine, len(rows))
	copy(out, rows)
	if len(out) == 0 {
		return out
	}

	normalizeMatched(out)
	fillUnmatched(out, opts)

	// Final enforcement sweep. Mostly a no-op by construction, but it is
	// the invariant's last line of defense regardless of what the fill
	// logic produced.
	for i := range out {
		if i > 0 && out[i].Start < out[i-1].Start+epsilon {
			out[i].Start = out[i-1].Start + epsilon
		}
		if out[i].End < out[i].Start+minLineSpan {
			out[i].End = out[i].Start + minLineSpan
		}
	}
	return out
}

// normalizeMatched clamps matched rows so their start times increase by at
// least epsilon per intervening line. That spacing guarantees the fill pass
// can always place unmatched lines between two anchors without disturbing
// the anchors themselves.
func normalizeMatched(rows []AlignedLine) {
	prevStart := 0.0
	havePrev := false
	pending := 0 // unmatched rows since the previous matched row
	for i := range rows {
		if !rows[i].Matched {
			pending++
			continue
		}
		var minStart float64
		if havePrev {
			minStart = prevStart + float64(pending+1)*epsilon
		} else {
			minStart = float64(pending) * epsilon
		}
		if rows[i].Start < minStart {
			rows[i].Start = minStart
		}
		if rows[i].End < rows[i].Start+minLineSpan {
			rows[i].End = rows[i].Start + minLineSpan
		}
		prevStart = rows[i].Start
		havePrev = true
		pending = 0
	}
}

// fillUnmatched recomputes every unmatched row from its nearest matched
// neighbors: interpolation between two anchors, a fixed-gap march off a
// single anchor, or even spacing when the document has no anchors at all.
func fillUnmatched(rows []AlignedLine, opts Options) {
	n := len(rows)
	for i := 0; i < n; {
		if rows[i].Matched {
			i++
			continue
		}
		j := i
		for j < n && !rows[j].Matched {
			j++
		}
		// run of unmatched rows is [i, j)
		left := i - 1  // matched predecessor, or -1
		right := j     // matched successor, or n
		u := j - i

		starts := make([]float64, u)
		ends := make([]float64, u)
		switch {
		case left >= 0 && right < n:
			span := rows[right].Start - rows[left].End
			if span < 0.5 {
				span = 0.5
			}
			step := span / float64(u+1)
			for k := 0; k < u; k++ {
				starts[k] = rows[left].End + step*float64(k+1)
				ends[k] = starts[k] + 0.8*step
			}
		case left >= 0:
			for k := 0; k < u; k++ {
				starts[k] = rows[left].End + opts.FixedGap + float64(k)*(opts.FixedGap+fallbackLineDur)
				ends[k] = starts[k] + fallbackLineDur
			}
		case right < n:
			curEnd := rows[right].Start - opts.FixedGap
			for k := u - 1; k >= 0; k-- {
				ends[k] = curEnd
				starts[k] = ends[k] - fallbackLineDur
				if starts[k] < 0 {
					starts[k] = 0
				}
				if ends[k] < starts[k] {
					ends[k] = starts[k]
				}
				curEnd = starts[k] - opts.FixedGap
			}
		default:
			for k := 0; k < u; k++ {
				starts[k] = opts.MinLineDuration * float64(k)
				ends[k] = starts[k] + opts.MinLineDuration
			}
		}

		// Clamp into the corridor left open by normalizeMatched: strictly
		// after the previous row, strictly before the next anchor.
		prev := -epsilon
		if i > 0 {
			prev = rows[i-1].Start
		}
		for k := 0; k < u; k++ {
			if floor := prev + epsilon; starts[k] < floor {
				starts[k] = floor
			}
			if right < n {
				if ceiling := rows[right].Start - float64(u-k)*epsilon; starts[k] > ceiling {
					starts[k] = ceiling
				}
			}
			if ends[k] < starts[k] {
				ends[k] = starts[k]
			}
			rows[i+k].Start = starts[k]
			rows[i+k].End = ends[k]
			prev = starts[k]
		}
		i = j
	}
}
