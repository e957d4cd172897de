package align

// Line is one reference lyric line. Index is the line's position in the
// original lyric document and is preserved through the pipeline, including
// blank placeholders and repeated chorus lines.
type Line struct {
	Index int
	Text  string
}

// AlignedLine is the engine's sole output record. Matched is false for
// lines whose timestamp came from the repair pass rather than a genuine
// match; Score is the coverage (fraction of line tokens matched in order)
// of the accepted span.
type AlignedLine struct {
	Index   int
	Start   float64
	End     float64
	Text    string
	Matched bool
	Score   float64
}

// Strategy names accepted by Run.
const (
	StrategyWindowed = "windowed"
	StrategyDP       = "dp"
	StrategyAuto     = "auto"
)

// Options tunes both strategies and the repair pass. Zero values are
// replaced by defaults, so Options{} behaves like DefaultOptions().
type Options struct {
	// Strategy selects windowed, dp, or auto (windowed then dp behind a
	// coverage gate).
	Strategy string

	// SearchAhead bounds how many stream tokens the windowed matcher scans
	// forward from its cursor for an anchor.
	SearchAhead int

	// SkipMax is the number of unmatched stream tokens tolerated between
	// two matched line tokens, absorbing ASR insertions.
	SkipMax int

	// MinCover is the coverage score below which a windowed candidate is
	// rejected and the line left for the repair pass.
	MinCover float64

	// ContinuityBonus is added to a candidate's selection score when its
	// anchor sits exactly at the cursor. Heuristic weight, default 0.
	ContinuityBonus float64

	// NextLineBonus is added when the stream token just past the candidate
	// span equals the next line's first token. Heuristic weight, default 0.
	NextLineBonus float64

	// ChainGate is the matched-line fraction at which the auto chain stops
	// consulting further strategies.
	ChainGate float64

	// FixedGap is the forward (or backward) nudge in seconds applied to
	// unmatched lines that have a matched neighbor on one side only.
	FixedGap float64

	// MinLineDuration is the per-line duration used to space runs of
	// unmatched lines that have no matched anchor at all.
	MinLineDuration float64

	// HeaderLine reports lyric lines that signal a structural reset (title
	// or attribution blocks). When set, the windowed matcher may rewind its
	// cursor to the stream start once per document on such a line.
	HeaderLine func(string) bool
}

// Default tuning values. The coverage threshold and window bounds carry
// over from the tuning that survived contact with real songs.
const (
	DefaultSearchAhead     = 400
	DefaultSkipMax         = 6
	DefaultMinCover        = 0.55
	DefaultChainGate       = 0.5
	DefaultFixedGap        = 0.3
	DefaultMinLineDuration = 2.5

	// shortCircuitCover ends the anchor scan early once a near-perfect
	// span is found.
	shortCircuitCover = 0.98

	// epsilon is the minimum spacing enforced between consecutive start
	// times, and minLineSpan the minimum emitted line duration.
	epsilon     = 0.001
	minLineSpan = 0.1
)

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:        StrategyWindowed,
		SearchAhead:     DefaultSearchAhead,
		SkipMax:         DefaultSkipMax,
		MinCover:        DefaultMinCover,
		ChainGate:       DefaultChainGate,
		FixedGap:        DefaultFixedGap,
		MinLineDuration: DefaultMinLineDuration,
	}
}

func (o Options) withDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = StrategyWindowed
	}
	if o.SearchAhead <= 0 {
		o.SearchAhead = DefaultSearchAhead
	}
	if o.SkipMax <= 0 {
		o.SkipMax = DefaultSkipMax
	}
	if o.MinCover <= 0 {
		o.MinCover = DefaultMinCover
	}
	if o.ChainGate <= 0 {
		o.ChainGate = DefaultChainGate
	}
	if o.FixedGap <= 0 {
		o.FixedGap = DefaultFixedGap
	}
	if o.MinLineDuration <= 0 {
		o.MinLineDuration = DefaultMinLineDuration
	}
	return o
}
