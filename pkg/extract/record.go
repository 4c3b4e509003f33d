package extract

import (
	"strconv"
	"strings"
)

// relevanceMarker must appear in a chunk for it to produce a record.
const relevanceMarker = "Attending"

// Record is one output row keyed by column name. Absent keys render as empty
// cells.
type Record map[string]string

// Relevant reports whether a raw chunk describes a staffed task.
func Relevant(chunk string) bool {
	return strings.Contains(chunk, relevanceMarker)
}

// Assemble merges a header and sanitized fields into a Record and derives
// TeamSize.
func Assemble(h TaskHeader, fs FieldSet) Record {
	rec := Record(h.Values())
	for k, v := range fs {
		rec[k] = v
	}
	if size, ok := TeamSize(fs); ok {
		rec[ColumnTeamSize] = strconv.FormatFloat(size, 'f', -1, 64)
	}
	return rec
}

// TeamSize sums the headcount fields. ok is false when the sum is zero,
// meaning the row carries no team information.
func TeamSize(fs FieldSet) (size float64, ok bool) {
	for _, d := range descriptors {
		if !d.TeamMember {
			continue
		}
		if n, valid := parseNumber(fs[d.Name]); valid {
			size += n
		}
	}
	return size, size != 0
}

var cellEscaper = strings.NewReplacer(";", ",", `\t`, "")

// Row renders the record in column order, making each cell safe for
// delimited output. The record itself is left unchanged.
func (r Record) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = cellEscaper.Replace(r[c])
	}
	return row
}
