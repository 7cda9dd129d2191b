/*
Package codepoint selects, partitions and describes sets of Unicode codepoints.

All functions of this package are pure: they work on in-memory codepoint sets
and perform no I/O. A subsetting run uses them in order:

	selected, err := codepoint.Select(full, codepoint.Chinese, "")
	groups, err := codepoint.Split(selected, codepoint.ByCount, 1000)
	for _, g := range groups {
	    fmt.Println(codepoint.FormatRanges(g))  // "U+4E00-4E10, U+4E2D"
	}

Codepoint sets are kept as strictly ascending slices of runes throughout,
see type Set.

A range expression, as accepted by ParseRangeExpr, is a comma-separated list
of hexadecimal codepoints or inclusive codepoint ranges, each boundary
optionally prefixed by "U+". The descriptors created by FormatRanges are valid
range expressions, thus

	ParseRangeExpr(FormatRanges(s))

reproduces the membership of s exactly.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package codepoint

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// ErrRangeExpression is wrapped by all errors for malformed range expressions.
var ErrRangeExpression = errors.New("malformed range expression")

// ErrEmptySequence is returned by Split for an empty codepoint set. Callers
// are expected to reject empty selections before partitioning.
var ErrEmptySequence = errors.New("cannot split an empty codepoint sequence")

// ErrInvalidCount is returned by Split for a non-positive group size.
var ErrInvalidCount = errors.New("split count must be a positive integer")

// ErrUnknownStrategy is returned for unknown strategy names.
var ErrUnknownStrategy = errors.New("unknown strategy")
