package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/youngOS1998/gameskill-data-process/internal/pipeline"
)

// SourceRecord is one decoded input line: a source video with its timed
// subtitle intervals.
type SourceRecord struct {
	VideoID   string
	Title     string
	Category  string
	Subtitles []pipeline.Interval
}

// rawRecord mirrors the input JSON shape, where each subtitle is a
// [start, end, text] triple.
type rawRecord struct {
	Video     string      `json:"video"`
	Title     string      `json:"title"`
	Category  string      `json:"category"`
	Subtitles []rawTriple `json:"subtitles"`
}

type rawTriple struct {
	Start float64
	End   float64
	Text  string
}

func (t *rawTriple) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("subtitle triple has %d elements, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &t.Start); err != nil {
		return fmt.Errorf("subtitle start: %w", err)
	}
	if err := json.Unmarshal(parts[1], &t.End); err != nil {
		return fmt.Errorf("subtitle end: %w", err)
	}
	if err := json.Unmarshal(parts[2], &t.Text); err != nil {
		return fmt.Errorf("subtitle text: %w", err)
	}
	return nil
}

// maxLineBytes bounds a single input line; hour-long videos carry large
// subtitle arrays.
const maxLineBytes = 16 * 1024 * 1024

// DecodeRecords reads line-delimited JSON records. A malformed line is
// logged and skipped; only a failure of the underlying reader is an error.
// Returns the decoded records and the number of skipped lines.
func DecodeRecords(r io.Reader) ([]SourceRecord, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		records []SourceRecord
		skipped int
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw rawRecord
		if err := json.Unmarshal(line, &raw); err != nil {
			slog.Warn("skipping malformed input line", "line", lineNum, "err", err)
			skipped++
			continue
		}

		rec := SourceRecord{
			VideoID:  raw.Video,
			Title:    raw.Title,
			Category: raw.Category,
		}
		for _, tr := range raw.Subtitles {
			rec.Subtitles = append(rec.Subtitles, pipeline.Interval{
				Start: tr.Start,
				End:   tr.End,
				Text:  tr.Text,
			})
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read input: %w", err)
	}
	return records, skipped, nil
}
