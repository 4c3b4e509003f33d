// Package render turns HTML documents into the line-oriented text the task
// extractor reads.
//
// The text convention is fixed: a table row renders as "| cell | cell ...",
// cell contents may continue over several lines, and every row of a top-level
// table is followed by a line equal to extract.RowSeparator.
package render

import "fmt"

// Renderer converts an HTML document to plain text.
type Renderer interface {
	// Render returns the text rendering of html.
	Render(html string) (string, error)

	// Name returns the renderer type for logging.
	Name() string
}

// ConversionError reports that a document could not be rendered. A run that
// hits it cannot produce any rows.
type ConversionError struct {
	Renderer string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s renderer: %v", e.Renderer, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ByName returns the renderer registered under name.
func ByName(name string) (Renderer, error) {
	switch name {
	case "table", "":
		return NewTableText(), nil
	case "noop", "text":
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown renderer: %s (use table or noop)", name)
	}
}
