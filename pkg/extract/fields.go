package extract

import "strings"

// FieldSet maps vocabulary names to their raw values. Only fields that were
// found are present.
type FieldSet map[string]string

// ParseFields extracts every vocabulary field wrapped in tag-like markup from
// the trailing cell of a task row.
//
// Each field is matched on its own against the whole text, so values of
// different fields may overlap.
func ParseFields(text string) FieldSet {
	fields := make(FieldSet)
	for _, d := range descriptors {
		if v, ok := tagValue(d, text); ok {
			fields[d.Name] = v
		}
	}
	return fields
}

// tagValue returns the text between the first open and close tag of d.
func tagValue(d Descriptor, text string) (string, bool) {
	parts := d.Pattern.Split(text, -1)
	if len(parts) < 3 {
		return "", false
	}
	v := strings.TrimSpace(parts[1])
	return v, v != ""
}
