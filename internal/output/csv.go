package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter writes delimited text with a header row.
type CSVWriter struct {
	w       *csv.Writer
	columns []string
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer, delimiter rune, crlf bool) (*CSVWriter, error) {
	// csv.Writer only reports a bad Comma on the first write.
	if delimiter == 0 || delimiter == '"' || delimiter == '\r' || delimiter == '\n' {
		return nil, fmt.Errorf("invalid CSV delimiter %q", delimiter)
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	cw.UseCRLF = crlf
	return &CSVWriter{w: cw}, nil
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader(columns []string) error {
	w.columns = columns
	return w.w.Write(columns)
}

// Write writes a single row.
func (w *CSVWriter) Write(row []string) error {
	if err := checkWidth(w.columns, row); err != nil {
		return err
	}
	return w.w.Write(row)
}

// Flush flushes buffered rows to the underlying writer.
func (w *CSVWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}
