package codepoint

import (
	"slices"
)

// Set is a set of Unicode codepoints, materialized as a strictly ascending
// sequence. The zero value is an empty set.
//
// Functions of this package rely on the ordering and will not re-sort their
// input; use NewSet to create a Set from arbitrary runes.
type Set []rune

// NewSet creates a set from runes in any order, dropping duplicates and
// negative values.
func NewSet(runes ...rune) Set {
	s := slices.Clone(runes)
	slices.Sort(s)
	s = slices.Compact(s)
	i, _ := slices.BinarySearch(s, 0)
	return Set(s[i:])
}

// Len returns the number of codepoints in s.
func (s Set) Len() int {
	return len(s)
}

// Contains reports whether c is a member of s.
func (s Set) Contains(c rune) bool {
	_, found := slices.BinarySearch(s, c)
	return found
}

// Range is an inclusive range of codepoints.
type Range struct {
	Lo, Hi rune
}

// Len returns the number of codepoints in r.
func (r Range) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// Contains reports whether c is within r.
func (r Range) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}

// Runs decomposes s into maximal runs of consecutive codepoints.
func Runs(s Set) []Range {
	if len(s) == 0 {
		return nil
	}
	runs := make([]Range, 0, 8)
	run := Range{Lo: s[0], Hi: s[0]}
	for _, c := range s[1:] {
		if c == run.Hi+1 {
			run.Hi = c
			continue
		}
		runs = append(runs, run)
		run = Range{Lo: c, Hi: c}
	}
	return append(runs, run)
}
