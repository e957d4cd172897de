package align

import (
	"math"
	"reflect"
	"testing"
)

func matchedRow(index int, start, end float64) AlignedLine {
	return AlignedLine{Index: index, Start: start, End: end, Matched: true, Score: 1.0}
}

func unmatchedRow(index int) AlignedLine {
	return AlignedLine{Index: index}
}

func TestRepairInterpolatesBetweenAnchors(t *testing.T) {
	rows := []AlignedLine{
		matchedRow(0, 0.5, 1.0),
		unmatchedRow(1),
		unmatchedRow(2),
		matchedRow(3, 4.0, 4.6),
	}
	out := Repair(rows, Options{})
	if len(out) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(out))
	}
	// span 3.0 across three steps of 1.0
	if math.Abs(out[1].Start-2.0) > 1e-9 || math.Abs(out[2].Start-3.0) > 1e-9 {
		t.Errorf("interpolated starts = %.3f, %.3f, want 2.0, 3.0", out[1].Start, out[2].Start)
	}
	if out[1].Matched || out[2].Matched {
		t.Error("interpolated rows must stay unmatched")
	}
	if out[1].End <= out[1].Start || out[2].End <= out[2].Start {
		t.Error("interpolated rows need positive duration")
	}
}

func TestRepairForwardNudge(t *testing.T) {
	rows := []AlignedLine{
		matchedRow(0, 1.0, 2.0),
		unmatchedRow(1),
	}
	out := Repair(rows, Options{})
	if math.Abs(out[1].Start-2.3) > 1e-9 {
		t.Errorf("tail start = %.3f, want 2.3 (end + fixed gap)", out[1].Start)
	}
}

func TestRepairBackwardNudge(t *testing.T) {
	rows := []AlignedLine{
		unmatchedRow(0),
		matchedRow(1, 5.0, 6.0),
	}
	out := Repair(rows, Options{})
	if math.Abs(out[0].End-4.7) > 1e-9 {
		t.Errorf("head end = %.3f, want 4.7 (start - fixed gap)", out[0].End)
	}
	if math.Abs(out[0].Start-3.7) > 1e-9 {
		t.Errorf("head start = %.3f, want 3.7", out[0].Start)
	}
	if out[0].Start < 0 {
		t.Error("head start clamped below zero")
	}
}

func TestRepairBackwardNudgeClampsAtZero(t *testing.T) {
	rows := []AlignedLine{
		unmatchedRow(0),
		unmatchedRow(1),
		matchedRow(2, 0.8, 1.5),
	}
	out := Repair(rows, Options{})
	for i, row := range out {
		if row.Start < 0 {
			t.Errorf("row %d start %.3f below zero", i, row.Start)
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i].Start <= out[i-1].Start {
			t.Errorf("starts not strictly increasing at %d", i)
		}
	}
}

func TestRepairEvenSpacingWithoutAnchors(t *testing.T) {
	rows := []AlignedLine{unmatchedRow(0), unmatchedRow(1), unmatchedRow(2)}
	out := Repair(rows, Options{})
	want := []float64{0.0, 2.5, 5.0}
	for i, row := range out {
		if math.Abs(row.Start-want[i]) > 1e-9 {
			t.Errorf("row %d start = %.3f, want %.3f", i, row.Start, want[i])
		}
		if row.End <= row.Start {
			t.Errorf("row %d end %.3f <= start %.3f", i, row.End, row.Start)
		}
	}
}

func TestRepairClampsInvertedMatches(t *testing.T) {
	rows := []AlignedLine{
		matchedRow(0, 5.0, 5.5),
		matchedRow(1, 1.0, 1.5),
		matchedRow(2, 6.0, 6.5),
	}
	out := Repair(rows, Options{})
	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].Start {
			t.Errorf("starts decreasing at %d: %.3f < %.3f", i, out[i].Start, out[i-1].Start)
		}
	}
}

func TestRepairCompleteness(t *testing.T) {
	rows := []AlignedLine{
		matchedRow(0, 0.0, 0.5),
		unmatchedRow(1),
		matchedRow(2, 2.0, 2.5),
		unmatchedRow(3),
		unmatchedRow(4),
	}
	out := Repair(rows, Options{})
	if len(out) != len(rows) {
		t.Fatalf("length changed: %d -> %d", len(rows), len(out))
	}
	for i, row := range out {
		if row.Index != rows[i].Index {
			t.Errorf("row %d index changed: %d -> %d", i, rows[i].Index, row.Index)
		}
	}
}

func TestRepairIdempotent(t *testing.T) {
	fixtures := [][]AlignedLine{
		{
			matchedRow(0, 0.5, 1.0),
			unmatchedRow(1),
			unmatchedRow(2),
			matchedRow(3, 4.0, 4.6),
			unmatchedRow(4),
		},
		{unmatchedRow(0), unmatchedRow(1), unmatchedRow(2)},
		{
			unmatchedRow(0),
			matchedRow(1, 3.0, 3.5),
			matchedRow(2, 2.0, 2.4), // inverted
			unmatchedRow(3),
		},
		{matchedRow(0, 0.0, 0.2)},
		{},
	}
	for fi, rows := range fixtures {
		once := Repair(rows, Options{})
		twice := Repair(once, Options{})
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("fixture %d: repair not idempotent:\n once: %+v\ntwice: %+v", fi, once, twice)
		}
	}
}

func TestRepairMinimumDuration(t *testing.T) {
	rows := []AlignedLine{
		matchedRow(0, 1.0, 1.0), // zero-duration match
	}
	out := Repair(rows, Options{})
	if out[0].End < out[0].Start+minLineSpan {
		t.Errorf("end %.3f < start+min span", out[0].End)
	}
}
