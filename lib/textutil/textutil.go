package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases and strips all whitespace, instrument names are
// rendered inconsistently ("VOLVO B", "Volvo  B").
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Field returns the n-th (zero based) whitespace separated token of s, or ""
// when s has fewer tokens.
func Field(s string, n int) string {
	fields := strings.Fields(s)
	if n < 0 || n >= len(fields) {
		return ""
	}
	return fields[n]
}

// Segment returns the n-th "/" separated segment of a url path, or "" when
// the path is shorter. "/aktier/om-aktien.html/5361" has "aktier" at 1.
func Segment(path string, n int) string {
	segments := strings.Split(path, "/")
	if n < 0 || n >= len(segments) {
		return ""
	}
	return segments[n]
}
