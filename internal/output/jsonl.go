package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONLWriter writes one JSON object per row, keys in column order.
type JSONLWriter struct {
	w       *bufio.Writer
	columns []string
	keys    [][]byte
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// WriteHeader records the column order. JSONL has no header line.
func (w *JSONLWriter) WriteHeader(columns []string) error {
	w.columns = columns
	w.keys = make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		w.keys[i] = k
	}
	return nil
}

// Write writes a single row as a JSON line.
func (w *JSONLWriter) Write(row []string) error {
	if err := checkWidth(w.columns, row); err != nil {
		return err
	}

	if err := w.w.WriteByte('{'); err != nil {
		return err
	}
	for i, cell := range row {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return err
			}
		}
		v, err := json.Marshal(cell)
		if err != nil {
			return err
		}
		if _, err := w.w.Write(w.keys[i]); err != nil {
			return err
		}
		if err := w.w.WriteByte(':'); err != nil {
			return err
		}
		if _, err := w.w.Write(v); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString("}\n")
	return err
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
