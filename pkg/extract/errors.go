package extract

import (
	"errors"
	"fmt"
)

// ErrStructural indicates a chunk lacks the cells needed to read its header.
// Check with errors.Is(err, extract.ErrStructural).
var ErrStructural = errors.New("malformed task row")

// StructuralParseError describes why a chunk could not be parsed.
// The chunk is skipped; the run continues.
type StructuralParseError struct {
	Reason   string
	Segments int
}

func (e *StructuralParseError) Error() string {
	return fmt.Sprintf("%s: %s (%d cells)", ErrStructural, e.Reason, e.Segments)
}

// Unwrap returns ErrStructural.
func (e *StructuralParseError) Unwrap() error {
	return ErrStructural
}

// DateParseError is recorded when a task stamp carries an unreadable date.
// It never aborts parsing of the chunk.
type DateParseError struct {
	Text string
	Err  error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unable to parse date %q: %v", e.Text, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}
