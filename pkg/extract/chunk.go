package extract

import (
	"iter"
	"regexp"
	"strings"
)

// RowSeparator is the line the text rendering emits after a table row.
const RowSeparator = "---|---"

var chunkStart = regexp.MustCompile(`^\s*\|\s+Task:`)

type chunkState int

const (
	outside chunkState = iota
	inside
)

// ChunkExtractor splits a line stream into chunks, one per task row.
//
// A chunk opens on a line starting with "| Task:" and closes on a line equal
// to RowSeparator. Both boundary lines belong to the chunk. A second start
// line while a chunk is open discards the open chunk. A separator with no
// open chunk is ignored.
type ChunkExtractor struct {
	state chunkState
	acc   []string
}

// Feed consumes one line and returns a completed chunk, if the line closed one.
func (c *ChunkExtractor) Feed(line string) (string, bool) {
	line = strings.TrimSpace(line)

	if chunkStart.MatchString(line) {
		c.state = inside
		c.acc = c.acc[:0]
	}

	if c.state != inside {
		return "", false
	}

	c.acc = append(c.acc, line)

	if line != RowSeparator {
		return "", false
	}

	c.state = outside
	chunk := strings.Join(c.acc, " ")
	c.acc = c.acc[:0]
	return chunk, true
}

// Open reports whether a chunk is currently being accumulated.
func (c *ChunkExtractor) Open() bool {
	return c.state == inside
}

// Chunks returns the chunks found in lines. The sequence is single-use and
// consumes lines exactly once.
func Chunks(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		var c ChunkExtractor
		for line := range lines {
			chunk, ok := c.Feed(line)
			if !ok {
				continue
			}
			if !yield(chunk) {
				return
			}
		}
	}
}
