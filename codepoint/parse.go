package codepoint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RangeError reports a malformed token of a range expression.
type RangeError struct {
	Token  string // offending token, trimmed
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: token %q: %s", ErrRangeExpression, e.Token, e.Reason)
}

// Unwrap makes a *RangeError match ErrRangeExpression.
func (e *RangeError) Unwrap() error {
	return ErrRangeExpression
}

// ParseRangeExpr parses a range expression like "U+0041-0043, U+0046" into
// inclusive ranges, in the order given.
//
// Tokens are separated by commas; each token is either a single hexadecimal
// codepoint or two of them joined by a hyphen. Every boundary may carry a
// "U+" prefix. An empty or blank expression results in no ranges. The first
// malformed token (non-hex digits, missing or reversed boundaries, values
// beyond U+10FFFF, empty tokens) aborts parsing with a *RangeError.
func ParseRangeExpr(expr string) ([]Range, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	tokens := strings.Split(expr, ",")
	ranges := make([]Range, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, &RangeError{Token: token, Reason: "empty token"}
		}
		first, last, isRange := strings.Cut(token, "-")
		lo, err := parseBoundary(token, first)
		if err != nil {
			return nil, err
		}
		hi := lo
		if isRange {
			if hi, err = parseBoundary(token, last); err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, &RangeError{Token: token, Reason: "reversed range"}
			}
		}
		ranges = append(ranges, Range{Lo: lo, Hi: hi})
	}
	return ranges, nil
}

func parseBoundary(token, b string) (rune, error) {
	b = strings.TrimSpace(b)
	if len(b) >= 2 && (b[0] == 'U' || b[0] == 'u') && b[1] == '+' {
		b = b[2:]
	}
	if b == "" {
		return 0, &RangeError{Token: token, Reason: "missing boundary"}
	}
	v, err := strconv.ParseUint(b, 16, 32)
	if err != nil {
		return 0, &RangeError{Token: token, Reason: fmt.Sprintf("%q is not a hexadecimal codepoint", b)}
	}
	if v > unicode.MaxRune {
		return 0, &RangeError{Token: token, Reason: fmt.Sprintf("U+%X is beyond U+10FFFF", v)}
	}
	return rune(v), nil
}

// SelectRanges returns the members of full which lie within any of ranges.
// Overlapping ranges do not produce duplicates.
func SelectRanges(full Set, ranges []Range) Set {
	if len(ranges) == 0 {
		return Set{}
	}
	sel := make(Set, 0, 64)
	for _, c := range full {
		for _, r := range ranges {
			if r.Contains(c) {
				sel = append(sel, c)
				break
			}
		}
	}
	return sel
}
