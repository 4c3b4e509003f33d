package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var trailingPA = regexp.MustCompile(`\s*PAs?$`)

// Sanitize normalizes extracted fields in place according to the vocabulary
// descriptors and returns fs.
func Sanitize(fs FieldSet) FieldSet {
	for _, d := range descriptors {
		v, ok := fs[d.Name]
		if !ok {
			continue
		}
		if d.Sanitize != nil {
			v = d.Sanitize(v)
		}
		if d.Numeric {
			if _, ok := parseNumber(v); !ok {
				v = ""
			}
		}
		fs[d.Name] = v
	}
	return fs
}

// stripPA drops a trailing "PA" or "PAs" count suffix ("2 PAs" -> "2").
func stripPA(v string) string {
	return trailingPA.ReplaceAllString(strings.TrimSpace(v), "")
}

// flattenLines keeps comments on a single output line.
func flattenLines(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}

// parseNumber parses v as a float. Non-finite values are rejected.
func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
