package words

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseCSV reads a word-timing CSV export with header
// `word,start,end[,probability]`. This is the interchange format some
// transcription drivers dump alongside their JSON output.
func ParseCSV(r io.Reader) ([]Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read word csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := records
	if isWordHeader(records[0]) {
		rows = records[1:]
	}

	out := make([]Word, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < 3 {
			return nil, fmt.Errorf("word csv row %d: want at least 3 columns, got %d", i+1, len(rec))
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("word csv row %d: start: %w", i+1, err)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("word csv row %d: end: %w", i+1, err)
		}
		confidence := 1.0
		if len(rec) >= 4 && strings.TrimSpace(rec[3]) != "" {
			p, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("word csv row %d: probability: %w", i+1, err)
			}
			confidence = clamp01(p)
		}
		text := strings.TrimSpace(rec[0])
		if text == "" {
			continue
		}
		out = append(out, Word{Text: text, Start: start, End: end, Confidence: confidence})
	}
	return out, nil
}

// LoadCSV reads a word-timing CSV file from disk.
func LoadCSV(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word csv %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

func isWordHeader(rec []string) bool {
	return len(rec) >= 3 && strings.EqualFold(strings.TrimSpace(rec[0]), "word")
}
