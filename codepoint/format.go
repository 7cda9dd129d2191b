package codepoint

import (
	"fmt"
	"strings"
)

// FullBMP is the descriptor used for an empty sequence, so that a CSS
// unicode-range never ends up empty.
const FullBMP = "U+0000-FFFF"

// FormatRanges compresses seq into a Unicode range descriptor, usable as the
// value of a CSS `unicode-range` descriptor.
//
// Maximal runs of consecutive codepoints are written as "U+XXXX-YYYY",
// single codepoints as "U+XXXX", with at least four upper-case hex digits.
// Entries are joined by ", ". An empty seq yields FullBMP.
func FormatRanges(seq Set) string {
	if len(seq) == 0 {
		return FullBMP
	}
	runs := Runs(seq)
	var sb strings.Builder
	sb.Grow(len(runs) * 14)
	for i, r := range runs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// String formats r the way FormatRanges does.
func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("U+%04X", r.Lo)
	}
	return fmt.Sprintf("U+%04X-%04X", r.Lo, r.Hi)
}
