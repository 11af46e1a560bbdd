// Package verse segments raw poem text into verse lines and keeps the
// lines in a canonical Unicode form. A poem file may carry one verse per
// line or one bait per line with an explicit hemistich separator; both
// forms segment to the same ordered line sequence.
package verse

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hemistichSeparators are the in-line markers used in printed diwans to
// separate a bait's two hemistichs. Checked in order of length so "***"
// is not consumed as "*".
var hemistichSeparators = []string{"***", "**", "//", "…", "*"}

// Split segments text into verse lines: one entry per hemistich, in
// reading order. Blank lines are dropped, each line is trimmed and
// NFC-normalized.
func Split(text string) []string {
	var verses []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, half := range splitHemistichs(line) {
			half = Normalize(half)
			if half != "" {
				verses = append(verses, half)
			}
		}
	}
	return verses
}

// splitHemistichs splits a printed bait line on the first recognised
// separator. Lines without a separator are returned whole.
func splitHemistichs(line string) []string {
	for _, sep := range hemistichSeparators {
		if strings.Contains(line, sep) {
			return strings.SplitN(line, sep, 2)
		}
	}
	return []string{line}
}

// Normalize trims whitespace, collapses internal runs of spaces, and
// applies Unicode NFC so combining diacritics compare consistently.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Join renders verses back into text, one hemistich per line.
func Join(verses []string) string {
	return strings.Join(verses, "\n")
}
