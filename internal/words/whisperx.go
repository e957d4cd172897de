package words

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type whisperWord struct {
	Word        string   `json:"word"`
	Start       *float64 `json:"start"`
	End         *float64 `json:"end"`
	Probability float64  `json:"probability"`
	Score       float64  `json:"score"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words"`
}

type whisperPayload struct {
	Segments     []whisperSegment `json:"segments"`
	WordSegments []whisperWord    `json:"word_segments"`
}

// ParseWhisperJSON decodes a WhisperX or faster-whisper transcript produced
// in word-timestamp mode. Both the per-segment `words` arrays and the
// flattened `word_segments` array are accepted; words without timing are
// dropped, matching how the transcription collaborators themselves treat
// unalignable fragments.
func ParseWhisperJSON(data []byte) ([]Word, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}

	var out []Word
	appendWord := func(w whisperWord) {
		text := strings.TrimSpace(w.Word)
		if text == "" || w.Start == nil || w.End == nil {
			return
		}
		out = append(out, Word{
			Text:       text,
			Start:      *w.Start,
			End:        *w.End,
			Confidence: wordConfidence(w),
		})
	}

	for _, seg := range payload.Segments {
		for _, w := range seg.Words {
			appendWord(w)
		}
	}
	if len(out) == 0 {
		for _, w := range payload.WordSegments {
			appendWord(w)
		}
	}
	return out, nil
}

// LoadWhisperJSON reads and parses a transcript file from disk.
func LoadWhisperJSON(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return ParseWhisperJSON(data)
}

// wordConfidence picks whichever confidence field the producing tool filled
// in: faster-whisper emits `probability`, WhisperX emits `score`. Absent
// both, the word counts as fully confident.
func wordConfidence(w whisperWord) float64 {
	switch {
	case w.Probability > 0:
		return clamp01(w.Probability)
	case w.Score > 0:
		return clamp01(w.Score)
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
