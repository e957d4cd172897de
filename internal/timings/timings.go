package timings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"mixterioso/internal/align"
)

// canonicalHeader is the column layout every writer emits. Readers also
// accept the shorter "start"/"end" spellings of the same columns.
var canonicalHeader = []string{"line_index", "start_secs", "end_secs", "text"}

// legacyGapSecs is the duration assumed for the final line of a start-only
// file, which carries no end timestamp of its own.
const legacyGapSecs = 3.0

// Write emits aligned lines in the canonical four-column CSV layout.
// Timestamps are fixed to millisecond precision so output files diff
// cleanly across runs.
func Write(w io.Writer, rows []align.AlignedLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(canonicalHeader); err != nil {
		return fmt.Errorf("writing timings header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Index),
			formatSecs(row.Start),
			formatSecs(row.End),
			row.Text,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing timings row %d: %w", row.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the canonical CSV to a file, creating parent-relative
// paths as given.
func WriteFile(path string, rows []align.AlignedLine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating timings file: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses timed lines from CSV. It detects the layout from the header
// row: the canonical four-column form, the legacy three-column start-only
// form ("line_index,time_secs,text"), and the bare "line,start" form. Files
// in a start-only layout get each line's end derived from the next line's
// start.
func Read(r io.Reader) ([]align.AlignedLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing timings csv: %w", err)
	}
	if len(records) == 0 {
		return []align.AlignedLine{}, nil
	}

	layout, err := detectLayout(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]align.AlignedLine, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := layout.parse(record)
		if err != nil {
			return nil, fmt.Errorf("timings row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	if layout.startOnly {
		deriveEnds(rows)
	}
	return rows, nil
}

// ReadFile parses a timings CSV from disk.
func ReadFile(path string) ([]align.AlignedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening timings file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

type layout struct {
	indexCol  int
	startCol  int
	endCol    int // -1 when the layout has no end column
	textCol   int // -1 when the layout has no text column
	startOnly bool
}

func detectLayout(header []string) (layout, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	key := strings.Join(cols, ",")
	switch key {
	case "line_index,start_secs,end_secs,text", "line_index,start,end,text":
		return layout{indexCol: 0, startCol: 1, endCol: 2, textCol: 3}, nil
	case "line_index,time_secs,text":
		return layout{indexCol: 0, startCol: 1, endCol: -1, textCol: 2, startOnly: true}, nil
	case "line,start":
		return layout{indexCol: 0, startCol: 1, endCol: -1, textCol: -1, startOnly: true}, nil
	}
	return layout{}, fmt.Errorf("unrecognized timings header %q", strings.Join(header, ","))
}

func (l layout) parse(record []string) (align.AlignedLine, error) {
	need := l.startCol + 1
	if l.endCol >= need {
		need = l.endCol + 1
	}
	if l.textCol >= need {
		need = l.textCol + 1
	}
	if len(record) < need {
		return align.AlignedLine{}, fmt.Errorf("short record: %d fields", len(record))
	}

	index, err := strconv.Atoi(strings.TrimSpace(record[l.indexCol]))
	if err != nil {
		return align.AlignedLine{}, fmt.Errorf("line index: %w", err)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(record[l.startCol]), 64)
	if err != nil {
		return align.AlignedLine{}, fmt.Errorf("start time: %w", err)
	}
	row := align.AlignedLine{Index: index, Start: start}
	if l.endCol >= 0 {
		row.End, err = strconv.ParseFloat(strings.TrimSpace(record[l.endCol]), 64)
		if err != nil {
			return align.AlignedLine{}, fmt.Errorf("end time: %w", err)
		}
	}
	if l.textCol >= 0 {
		row.Text = record[l.textCol]
	}
	return row, nil
}

// deriveEnds fills in end times for start-only layouts: each line ends where
// the next begins, and the last line gets a fixed trailing duration.
func deriveEnds(rows []align.AlignedLine) {
	for i := range rows {
		if i+1 < len(rows) {
			rows[i].End = rows[i+1].Start
		} else {
			rows[i].End = rows[i].Start + legacyGapSecs
		}
	}
}

func formatSecs(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
