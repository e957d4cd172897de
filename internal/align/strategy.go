package align

import (
	"fmt"

	"mixterioso/internal/words"
)

// Strategy is the uniform interface every alignment approach implements.
// Implementations return one raw AlignedLine per input line and only fail
// on structural precondition violations.
type Strategy interface {
	Name() string
	Align(lines []Line, stream []words.Word) ([]AlignedLine, error)
}

// Result is the outcome of a full alignment run: repaired lines plus the
// strategy that produced them and the fraction of lines genuinely matched.
type Result struct {
	Lines    []AlignedLine
	Strategy string
	Coverage float64
}

// MatchedFraction reports the share of lines carrying a genuine match.
func MatchedFraction(rows []AlignedLine) float64 {
	if len(rows) == 0 {
		return 0
	}
	matched := 0
	for _, row := range rows {
		if row.Matched {
			matched++
		}
	}
	return float64(matched) / float64(len(rows))
}

// Chain runs strategies in order with a coverage-quality gate between
// attempts: the first result whose matched-line fraction reaches the gate
// wins, otherwise the best-covered attempt does. This replaces ad hoc
// fallback nesting with an explicit ordered list.
type Chain struct {
	strategies []Strategy
	gate       float64
}

// NewChain builds a strategy chain. Gate values outside (0, 1] fall back to
// the default.
func NewChain(gate float64, strategies ...Strategy) *Chain {
	if gate <= 0 || gate > 1 {
		gate = DefaultChainGate
	}
	return &Chain{strategies: strategies, gate: gate}
}

// Align implements Strategy over the whole chain.
func (c *Chain) Align(lines []Line, stream []words.Word) ([]AlignedLine, error) {
	rows, _, err := c.AlignNamed(lines, stream)
	return rows, err
}

// Name implements Strategy.
func (c *Chain) Name() string { return StrategyAuto }

// AlignNamed runs the chain and also reports which strategy's output was
// selected.
func (c *Chain) AlignNamed(lines []Line, stream []words.Word) ([]AlignedLine, string, error) {
	var (
		bestRows  []AlignedLine
		bestName  string
		bestCover = -1.0
	)
	for _, strategy := range c.strategies {
		rows, err := strategy.Align(lines, stream)
		if err != nil {
			return nil, "", err
		}
		cover := MatchedFraction(rows)
		if cover > bestCover {
			bestRows, bestName, bestCover = rows, strategy.Name(), cover
		}
		if cover >= c.gate {
			break
		}
	}
	if bestRows == nil {
		bestRows = make([]AlignedLine, 0, len(lines))
		for _, line := range lines {
			bestRows = append(bestRows, AlignedLine{Index: line.Index, Text: line.Text})
		}
		bestName = "none"
	}
	return bestRows, bestName, nil
}

// Run executes the full alignment pipeline: strategy selection, raw
// matching, and the repair pass. An empty lyric document yields an empty
// result; an empty word stream degrades to linear spacing with every line
// unmatched. Only a malformed word stream returns an error.
func Run(lines []Line, stream []words.Word, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if len(lines) == 0 {
		return Result{Lines: []AlignedLine{}, Strategy: opts.Strategy}, nil
	}

	var (
		rows []AlignedLine
		name string
		err  error
	)
	switch opts.Strategy {
	case StrategyWindowed:
		name = StrategyWindowed
		rows, err = NewWindowedMatcher(opts).Align(lines, stream)
	case StrategyDP:
		name = StrategyDP
		rows, err = NewDPAligner(opts).Align(lines, stream)
	case StrategyAuto:
		chain := NewChain(opts.ChainGate, NewWindowedMatcher(opts), NewDPAligner(opts))
		rows, name, err = chain.AlignNamed(lines, stream)
	default:
		return Result{}, fmt.Errorf("unknown alignment strategy %q", opts.Strategy)
	}
	if err != nil {
		return Result{}, err
	}

	repaired := Repair(rows, opts)
	return Result{
		Lines:    repaired,
		Strategy: name,
		Coverage: MatchedFraction(repaired),
	}, nil
}
