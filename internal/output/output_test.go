package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

var testColumns = []string{"Name", "TeamSize", "Comments"}

// --- NewWriter Factory Tests ---

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "*output.CSVWriter"},
		{"", "*output.CSVWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("NewWriter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *CSVWriter:
		return "*output.CSVWriter"
	case *JSONLWriter:
		return "*output.JSONLWriter"
	case *YAMLWriter:
		return "*output.YAMLWriter"
	default:
		return "unknown"
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xlsx"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestNewWriter_BadDelimiter(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, FormatCSV, WithDelimiter('"')); err == nil {
		t.Fatal("expected error for quote delimiter")
	}
}

func TestFormat_Extension(t *testing.T) {
	for f, want := range map[Format]string{FormatCSV: ".csv", FormatJSONL: ".jsonl", FormatYAML: ".yaml"} {
		if got := f.Extension(); got != want {
			t.Errorf("%s.Extension() = %q, want %q", f, got, want)
		}
	}
}

// --- CSVWriter Tests ---

func TestCSVWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatCSV)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if err := w.WriteHeader(testColumns); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if err := w.Write([]string{"Doe, Jane", "", `said "ok"`}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "Name,TeamSize,Comments\n\"Doe, Jane\",,\"said \"\"ok\"\"\"\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][0] != "Doe, Jane" || records[1][1] != "" {
		t.Errorf("round trip = %q", records[1])
	}
}

func TestCSVWriter_Options(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatCSV, WithDelimiter('\t'), WithCRLF(true))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	_ = w.WriteHeader([]string{"a", "b"})
	_ = w.Write([]string{"1", "2"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if buf.String() != "a\tb\r\n1\t2\r\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCSVWriter_HeaderOnly(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatCSV)
	_ = w.WriteHeader(testColumns)
	_ = w.Close()

	if buf.String() != "Name,TeamSize,Comments\n" {
		t.Errorf("output = %q", buf.String())
	}
}

// --- Row shape errors ---

func TestWriters_RowBeforeHeader(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			w, _ := NewWriter(&bytes.Buffer{}, f)
			if err := w.Write([]string{"x"}); !errors.Is(err, ErrNoHeader) {
				t.Errorf("Write() error = %v, want ErrNoHeader", err)
			}
		})
	}
}

func TestWriters_WidthMismatch(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			w, _ := NewWriter(&bytes.Buffer{}, f)
			_ = w.WriteHeader(testColumns)
			if err := w.Write([]string{"only one"}); err == nil {
				t.Error("expected error for short row")
			}
		})
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	_ = w.WriteHeader(testColumns)
	if err := w.Write([]string{"Jane", "3", ""}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write([]string{"Bo", "", "line \"two\""}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	if lines[0] != `{"Name":"Jane","TeamSize":"3","Comments":""}` {
		t.Errorf("line 0 = %s", lines[0])
	}

	var row map[string]string
	if err := json.Unmarshal([]byte(lines[1]), &row); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if row["Comments"] != `line "two"` {
		t.Errorf("Comments = %q", row["Comments"])
	}
}

func TestJSONLWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)
	_ = w.WriteHeader(testColumns)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %q", buf.String())
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf, 2)

	_ = w.WriteHeader(testColumns)
	_ = w.Write([]string{"Jane", "3", "ok"})
	_ = w.Write([]string{"Bo", "", "yes"})

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var rows []map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["Comments"] != "yes" || rows[1]["TeamSize"] != "" {
		t.Errorf("row 1 = %v", rows[1])
	}

	// Keys keep column order and values stay strings.
	out := buf.String()
	if strings.Index(out, "Name:") > strings.Index(out, "TeamSize:") {
		t.Errorf("column order not preserved:\n%s", out)
	}
	if !strings.Contains(out, `TeamSize: "3"`) {
		t.Errorf("numeric-looking cells should be quoted strings:\n%s", out)
	}
}

func TestYAMLWriter_CloseTwice(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf, 2)
	_ = w.WriteHeader(testColumns)
	_ = w.Write([]string{"Jane", "3", "ok"})

	_ = w.Flush()
	n := buf.Len()
	_ = w.Close()

	if buf.Len() != n {
		t.Errorf("second flush wrote again: %q", buf.String())
	}
}
