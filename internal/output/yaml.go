package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes rows as a YAML sequence of mappings. Rows are buffered
// and encoded on Flush so the document is a single sequence.
type YAMLWriter struct {
	w       *bufio.Writer
	indent  int
	columns []string
	doc     *yaml.Node
	flushed bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer, indent int) *YAMLWriter {
	return &YAMLWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
		doc:    &yaml.Node{Kind: yaml.SequenceNode},
	}
}

// WriteHeader records the column order used for mapping keys.
func (w *YAMLWriter) WriteHeader(columns []string) error {
	w.columns = columns
	return nil
}

// Write buffers a single row.
func (w *YAMLWriter) Write(row []string) error {
	if err := checkWidth(w.columns, row); err != nil {
		return err
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	for i, cell := range row {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: w.columns[i]},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cell},
		)
	}
	w.doc.Content = append(w.doc.Content, m)
	return nil
}

// Flush encodes the buffered rows. Only the first call writes a document.
func (w *YAMLWriter) Flush() error {
	if w.flushed {
		return w.w.Flush()
	}
	w.flushed = true

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(w.indent)
	if err := encoder.Encode(w.doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
