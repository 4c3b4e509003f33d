// Package output serializes extracted rows.
package output

import (
	"errors"
	"fmt"
	"io"
)

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSONL, FormatYAML}

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	default:
		return "." + string(f)
	}
}

// yamlIndent is the indentation width of YAML output.
const yamlIndent = 2

// ErrNoHeader is returned when a row is written before the column header.
var ErrNoHeader = errors.New("output: row written before header")

// Writer serializes rows under a fixed column header.
type Writer interface {
	// WriteHeader fixes the column order. It must be called once, first.
	WriteHeader(columns []string) error

	// Write outputs a single row, aligned with the header columns.
	Write(row []string) error

	// Flush ensures all data is written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	delimiter rune
	crlf      bool
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(d rune) WriterOption {
	return func(c *writerConfig) {
		c.delimiter = d
	}
}

// WithCRLF terminates CSV lines with \r\n.
func WithCRLF(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.crlf = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV, "":
		cw, err := NewCSVWriter(w, cfg.delimiter, cfg.crlf)
		if err != nil {
			return nil, err
		}
		return cw, nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w, yamlIndent), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func checkWidth(columns, row []string) error {
	if columns == nil {
		return ErrNoHeader
	}
	if len(row) != len(columns) {
		return fmt.Errorf("output: row has %d cells, header has %d", len(row), len(columns))
	}
	return nil
}
