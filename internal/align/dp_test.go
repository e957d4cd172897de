package align

import (
	"math"
	"testing"
)

func TestDPBasicAlignment(t *testing.T) {
	lines := []Line{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Foo bar"},
	}
	stream := wordsFixture(
		[3]any{"hello", 0.0, 0.4},
		[3]any{"world", 0.45, 0.9},
		[3]any{"foo", 5.0, 5.4},
		[3]any{"bar", 5.5, 5.9},
	)

	aligner := NewDPAligner(Options{})
	rows, err := aligner.Align(lines, stream)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if !rows[0].Matched || rows[0].Start != 0.0 || rows[0].End != 0.9 {
		t.Errorf("line 0 = %+v, want span (0.0, 0.9)", rows[0])
	}
	if !rows[1].Matched || rows[1].Start != 5.0 || rows[1].End != 5.9 {
		t.Errorf("line 1 = %+v, want span (5.0, 5.9)", rows[1])
	}
	if rows[0].Score != 1.0 || rows[1].Score != 1.0 {
		t.Errorf("scores = %.2f, %.2f, want 1.0 each", rows[0].Score, rows[1].Score)
	}
}

func TestDPRepeatedLines(t *testing.T) {
	lines := []Line{
		{Index: 0, Text: "hello"},
		{Index: 1, Text: "hello"},
		{Index: 2, Text: "hello"},
	}
	stream := wordsFixture(
		[3]any{"hello", 0.0, 0.4},
		[3]any{"hello", 1.0, 1.4},
		[3]any{"hello", 2.0, 2.4},
	)

	result, err := Run(lines, stream, Options{Strategy: StrategyDP})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []float64{0.0, 1.0, 2.0}
	for i, row := range result.Lines {
		if math.Abs(row.Start-want[i]) > 1e-9 {
			t.Errorf("line %d start = %.3f, want %.3f", i, row.Start, want[i])
		}
	}
}

func TestDPSubstitutionIsNotAMatch(t *testing.T) {
	// The middle line shares no exact token with the stream; DP must leave
	// it empty for the repair pass rather than pinning it on a
	// substitution.
	lines := []Line{
		{Index: 0, Text: "hello"},
		{Index: 1, Text: "qqq zzz"},
		{Index: 2, Text: "world"},
	}
	stream := wordsFixture(
		[3]any{"hello", 0.0, 0.4},
		[3]any{"world", 5.0, 5.4},
	)

	aligner := NewDPAligner(Options{})
	rows, err := aligner.Align(lines, stream)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if !rows[0].Matched || rows[1].Matched || !rows[2].Matched {
		t.Fatalf("matched flags = %v %v %v, want true false true",
			rows[0].Matched, rows[1].Matched, rows[2].Matched)
	}

	result, err := Run(lines, stream, Options{Strategy: StrategyDP})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	middle := result.Lines[1]
	if middle.Start <= result.Lines[0].Start || middle.Start >= result.Lines[2].Start {
		t.Errorf("repaired middle start %.3f not between %.3f and %.3f",
			middle.Start, result.Lines[0].Start, result.Lines[2].Start)
	}
}

func TestDPSkipsInsertedStreamTokens(t *testing.T) {
	lines := []Line{{Index: 0, Text: "hello world"}}
	stream := wordsFixture(
		[3]any{"uh", 0.0, 0.1},
		[3]any{"hello", 0.2, 0.5},
		[3]any{"um", 0.6, 0.7},
		[3]any{"world", 0.8, 1.1},
		[3]any{"yeah", 1.2, 1.3},
	)

	aligner := NewDPAligner(Options{})
	rows, err := aligner.Align(lines, stream)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if !rows[0].Matched || rows[0].Start != 0.2 || rows[0].End != 1.1 {
		t.Errorf("line 0 = %+v, want span (0.2, 1.1)", rows[0])
	}
}

func TestDPEmptyStream(t *testing.T) {
	lines := []Line{
		{Index: 0, Text: "one"},
		{Index: 1, Text: "two"},
	}
	rows, err := NewDPAligner(Options{}).Align(lines, nil)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Matched {
			t.Errorf("row %d matched with empty stream", i)
		}
	}
}
