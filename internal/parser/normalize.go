package parser

import "strings"

// Normalize collapses every run of whitespace in text extracted from a PDF
// (newlines, tabs, non-breaking spaces, form feeds) into a single space and
// trims both ends. All field patterns are written against this form.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
