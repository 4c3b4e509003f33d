// Package extract recovers task records from the plain-text rendering of a
// task table.
//
// The rendering is a line stream where table cells are separated by "|" and
// each table row of interest starts with a "| Task:" line and ends with the
// "---|---" row separator. Cell contents were typed by hand with tag-like
// markup such as <APRN>2</APRN>, which is matched tolerantly.
package extract

import (
	"regexp"
	"strings"
)

// Field names recognized inside the trailing cell of a task row.
const (
	FieldNumberPhysicians = "NumberPhysicians"
	FieldAttending        = "Attending"
	FieldAPRN             = "APRN"
	FieldNPPN             = "NPPN"
	FieldPGY              = "PGY"
	FieldHospitalist      = "Hospitalist"
	FieldInteraction      = "Interaction"
	FieldComments         = "Comments"
)

// Header column names.
const (
	ColumnName     = "Name"
	ColumnDate     = "Date"
	ColumnHours    = "Hours"
	ColumnTracking = "Tracking"
	ColumnDept     = "Dept"
	ColumnTeamSize = "TeamSize"
)

// Descriptor drives extraction and cleanup of a single tagged field.
type Descriptor struct {
	// Name is the tag name as typed in the table.
	Name string

	// Pattern matches an open or close tag for Name, tolerating stray
	// ornamental characters on either side.
	Pattern *regexp.Regexp

	// Numeric fields keep their value only if it parses as a float.
	Numeric bool

	// TeamMember fields contribute to the derived TeamSize.
	TeamMember bool

	// Sanitize rewrites the raw value. Nil leaves it untouched.
	Sanitize func(string) string
}

// ornaments are the characters allowed to surround a tag name.
const ornaments = `[<>/()]*`

func tagPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(ornaments + regexp.QuoteMeta(name) + ornaments)
}

// descriptors is the ordered field vocabulary. Order is the output column
// order for the fields.
var descriptors = []Descriptor{
	{Name: FieldNumberPhysicians, Pattern: tagPattern(FieldNumberPhysicians), TeamMember: true},
	{Name: FieldAttending, Pattern: tagPattern(FieldAttending)},
	{Name: FieldAPRN, Pattern: tagPattern(FieldAPRN), TeamMember: true, Sanitize: stripPA},
	{Name: FieldNPPN, Pattern: tagPattern(FieldNPPN), Numeric: true, TeamMember: true},
	{Name: FieldPGY, Pattern: tagPattern(FieldPGY), Numeric: true, TeamMember: true},
	{Name: FieldHospitalist, Pattern: tagPattern(FieldHospitalist), Numeric: true, TeamMember: true},
	{Name: FieldInteraction, Pattern: tagPattern(FieldInteraction), Numeric: true},
	{Name: FieldComments, Pattern: tagPattern(FieldComments), Sanitize: flattenLines},
}

// Descriptors returns a copy of the field vocabulary in declared order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Fields returns the field vocabulary names in declared order.
func Fields() []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// Columns returns the fixed output column order: the header columns,
// TeamSize, then the field vocabulary.
func Columns() []string {
	cols := []string{ColumnName, ColumnDate, ColumnHours, ColumnTracking, ColumnDept, ColumnTeamSize}
	return append(cols, Fields()...)
}

// firstTagIndex returns the byte offset of the earliest vocabulary tag in s,
// or -1 if none occurs.
func firstTagIndex(s string) int {
	first := -1
	for _, d := range descriptors {
		loc := d.Pattern.FindStringIndex(s)
		if loc != nil && (first < 0 || loc[0] < first) {
			first = loc[0]
		}
	}
	return first
}

// hasStamp reports whether s looks like a "prefix_name(user)_date" stamp.
func hasStamp(s string) bool {
	return strings.Count(s, "_") == 2
}
