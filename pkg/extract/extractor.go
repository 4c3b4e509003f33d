package extract

import (
	"errors"
	"iter"
	"strings"

	"github.com/jmylchreest/rosterx/internal/logger"
)

// Stats counts what happened to the chunks of a run.
type Stats struct {
	Chunks       int // chunks found in the text
	Irrelevant   int // chunks dropped by the relevance filter
	Malformed    int // chunks skipped because the header was unreadable
	DateFailures int // records emitted without a date
	Records      int // records emitted
}

// ParseChunk turns a relevant chunk into a Record.
//
// A *StructuralParseError returns a nil Record. A *DateParseError returns a
// complete Record without a Date.
func ParseChunk(chunk string) (Record, error) {
	head, tail := splitChunk(chunk)

	h, err := ParseHeader(head)
	var dateErr *DateParseError
	if err != nil && !errors.As(err, &dateErr) {
		return nil, err
	}

	fs := Sanitize(ParseFields(tail))
	return Assemble(h, fs), err
}

// Extractor runs the chunk pipeline over a rendered table and keeps Stats.
// An Extractor is not safe for concurrent use.
type Extractor struct {
	stats Stats
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Stats returns the counters accumulated so far.
func (e *Extractor) Stats() Stats {
	return e.stats
}

// Records yields one Record per relevant, well-formed chunk in lines.
// Malformed chunks are logged and skipped.
func (e *Extractor) Records(lines iter.Seq[string]) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for chunk := range Chunks(lines) {
			e.stats.Chunks++
			n := e.stats.Chunks

			if !Relevant(chunk) {
				e.stats.Irrelevant++
				logger.Debug("skipping chunk without attending", "chunk", n)
				continue
			}

			rec, err := ParseChunk(chunk)
			if err != nil {
				var dateErr *DateParseError
				if !errors.As(err, &dateErr) {
					e.stats.Malformed++
					logger.Warn("skipping malformed chunk", "chunk", n, "error", err)
					continue
				}
				e.stats.DateFailures++
				logger.Warn("date omitted", "chunk", n, "text", dateErr.Text, "error", dateErr.Err)
			}

			e.stats.Records++
			if !yield(rec) {
				return
			}
		}
	}
}

// Lines splits rendered text into lines.
func Lines(text string) iter.Seq[string] {
	return strings.Lines(text)
}

// Extract runs the whole pipeline over rendered text.
func Extract(text string) ([]Record, Stats) {
	e := New()
	var out []Record
	for rec := range e.Records(Lines(text)) {
		out = append(out, rec)
	}
	return out, e.Stats()
}
