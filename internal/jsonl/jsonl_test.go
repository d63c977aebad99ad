package jsonl

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeRecords_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"video":"v1","title":"t1","category":"cs2","subtitles":[[0.0,1.5,"a b"]]}`,
		`{not json`,
		``,
		`{"video":"v2","title":"t2","category":"repair","subtitles":[]}`,
		`{"video":"v3","subtitles":[[0.0,"bad",1]]}`,
	}, "\n")

	records, skipped, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	first := records[0]
	if first.VideoID != "v1" || first.Title != "t1" || first.Category != "cs2" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if len(first.Subtitles) != 1 {
		t.Fatalf("first record subtitles = %d, want 1", len(first.Subtitles))
	}
	iv := first.Subtitles[0]
	if iv.Start != 0.0 || iv.End != 1.5 || iv.Text != "a b" {
		t.Errorf("unexpected interval: %+v", iv)
	}
}

func TestDecodeRecords_Empty(t *testing.T) {
	records, skipped, err := DecodeRecords(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 || skipped != 0 {
		t.Errorf("expected nothing from empty input, got %d records, %d skipped", len(records), skipped)
	}
}

func TestDecodeRecords_TripleLengthRejected(t *testing.T) {
	input := `{"video":"v1","subtitles":[[0.0,1.0]]}`
	_, skipped, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("two-element triple should make the line malformed, skipped = %d", skipped)
	}
}

func TestWriter_OneLinePerValue(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for _, v := range []map[string]any{
		{"video": "a.mp4"},
		{"video": "b.mp4"},
	} {
		if err := w.Write(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			t.Errorf("line is not a JSON object: %q", line)
		}
	}
}

func TestWriter_DoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(map[string]string{"value": "<video>"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if !strings.Contains(buf.String(), "<video>") {
		t.Errorf("expected literal <video> marker in output, got %q", buf.String())
	}
}
