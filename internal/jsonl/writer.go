package jsonl

import (
	"bufio"
	"encoding/json"
	"io"
)

// Writer serializes one value per line into a line-delimited JSON stream.
type Writer struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewWriter wraps w for line-delimited JSON output.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Write encodes v followed by a newline.
func (w *Writer) Write(v any) error {
	return w.enc.Encode(v)
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}
