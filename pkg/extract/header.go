package extract

import (
	"strings"
	"time"
)

// Layouts for the task stamp date.
const (
	stampLayout  = "Jan 2, 2006 3:4:5 PM" // minutes and seconds may be unpadded
	outputLayout = "01/02/2006"
)

// stampSuffixLen is the width of the zone suffix trailing every stamp date
// (e.g. " EST").
const stampSuffixLen = 4

// TaskHeader holds the metadata cells leading a task row.
// Empty fields are absent.
type TaskHeader struct {
	Name     string
	Date     string // MM/DD/YYYY
	Hours    string
	Tracking string
	Dept     string
}

// Values returns the non-empty header attributes keyed by column name.
func (h TaskHeader) Values() map[string]string {
	out := make(map[string]string, 5)
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(ColumnName, h.Name)
	set(ColumnDate, h.Date)
	set(ColumnHours, h.Hours)
	set(ColumnTracking, h.Tracking)
	set(ColumnDept, h.Dept)
	return out
}

// splitChunk cuts a chunk into its header cells and the trailing field cell.
func splitChunk(chunk string) ([]string, string) {
	chunk = strings.TrimSpace(chunk)
	chunk = strings.TrimSpace(strings.TrimSuffix(chunk, RowSeparator))

	parts := strings.Split(chunk, "|")
	last := len(parts) - 1
	head, tail := parts[:last], strings.TrimSpace(parts[last])

	// Some rows lose the cell boundary between the stamp and the fields.
	// Only then does the text before the first tag count as the stamp.
	if hasStamp(lastCell(head)) {
		return head, tail
	}
	lead := tail
	if i := firstTagIndex(tail); i >= 0 {
		lead = tail[:i]
	}
	if lead = strings.TrimSpace(lead); lead != "" && hasStamp(lead) {
		head = append(head[:last:last], lead)
	}

	return head, tail
}

// lastCell returns the last non-blank cell, trimmed.
func lastCell(cells []string) string {
	for i := len(cells) - 1; i >= 0; i-- {
		if c := strings.TrimSpace(cells[i]); c != "" {
			return c
		}
	}
	return ""
}

// ParseHeader reads a TaskHeader from the leading cells of a chunk.
//
// A *StructuralParseError means the header could not be read at all. A
// *DateParseError is returned alongside a usable header with Date unset.
func ParseHeader(segments []string) (TaskHeader, error) {
	cells := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			cells = append(cells, s)
		}
	}
	if len(cells) < 2 {
		return TaskHeader{}, &StructuralParseError{Reason: "need at least two header cells", Segments: len(cells)}
	}

	var h TaskHeader
	h.Dept = strings.TrimSpace(strings.TrimPrefix(cells[0], "Task:"))
	h.Tracking = parseTracking(cells[1])
	h.Hours = cells[len(cells)-2]

	stamp := strings.Split(cells[len(cells)-1], "_")
	if len(stamp) != 3 {
		return TaskHeader{}, &StructuralParseError{Reason: "stamp is not prefix_name_date", Segments: len(cells)}
	}

	name, _, _ := strings.Cut(stamp[1], "(")
	h.Name = strings.TrimSpace(name)

	date, err := parseStampDate(stamp[2])
	if err != nil {
		return h, err
	}
	h.Date = date
	return h, nil
}

func parseTracking(cell string) string {
	before, _, _ := strings.Cut(cell, ">")
	if f := strings.Fields(before); len(f) > 0 {
		return f[0]
	}
	return ""
}

func parseStampDate(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if len(text) >= stampSuffixLen {
		text = strings.TrimSpace(text[:len(text)-stampSuffixLen])
	} else {
		text = ""
	}

	// Month names match in any case; the meridiem only in upper case.
	t, err := time.Parse(stampLayout, strings.ToUpper(text))
	if err != nil {
		return "", &DateParseError{Text: text, Err: err}
	}
	return t.Format(outputLayout), nil
}
