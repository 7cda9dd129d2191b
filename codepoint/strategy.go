package codepoint

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Strategy selects which codepoints of a font are kept.
type Strategy int

const (
	All     Strategy = iota // every codepoint of the font
	Common                  // Latin and general punctuation, see CommonBlocks
	Chinese                 // CJK unified ideographs, see ChineseBlocks
	Custom                  // codepoints matching a range expression
)

var strategyNames = [...]string{"all", "common", "chinese", "custom"}

func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name (all, common, chinese, custom) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Strategy(i), nil
		}
	}
	return All, fmt.Errorf("%w: subset strategy %q (expected all|common|chinese|custom)",
		ErrUnknownStrategy, name)
}

// Block is a named, inclusive range of codepoints.
type Block struct {
	Name string
	Range
}

// CommonBlocks are the Unicode blocks kept by strategy Common.
var CommonBlocks = []Block{
	{"Basic Latin (printable)", Range{0x0020, 0x007E}},
	{"Latin-1 Supplement", Range{0x00A0, 0x00FF}},
	{"General Punctuation", Range{0x2000, 0x206F}},
}

// ChineseBlocks are the Unicode blocks kept by strategy Chinese.
var ChineseBlocks = []Block{
	{"CJK Unified Ideographs", Range{0x4E00, 0x9FFF}},
	{"CJK Unified Ideographs Extension A", Range{0x3400, 0x4DBF}},
	{"CJK Unified Ideographs Extension B", Range{0x20000, 0x2A6DF}},
}

// CommonRanges and ChineseRanges are the range tables of CommonBlocks and
// ChineseBlocks, respectively.
var (
	CommonRanges  = blockTable(CommonBlocks)
	ChineseRanges = blockTable(ChineseBlocks)
)

// Blocks returns the named blocks of strategy s, or nil for strategies
// without fixed blocks.
func Blocks(s Strategy) []Block {
	switch s {
	case Common:
		return CommonBlocks
	case Chinese:
		return ChineseBlocks
	}
	return nil
}

func blockTable(blocks []Block) *unicode.RangeTable {
	tables := make([]*unicode.RangeTable, len(blocks))
	for i, b := range blocks {
		t := &unicode.RangeTable{}
		if b.Hi <= 0xFFFF {
			t.R16 = []unicode.Range16{{Lo: uint16(b.Lo), Hi: uint16(b.Hi), Stride: 1}}
		} else {
			t.R32 = []unicode.Range32{{Lo: uint32(b.Lo), Hi: uint32(b.Hi), Stride: 1}}
		}
		tables[i] = t
	}
	return rangetable.Merge(tables...)
}

// Select filters the codepoints of a font by strategy s. Parameter expr is
// the range expression for strategy Custom and is ignored otherwise.
//
// The result is a subset of full and may be empty; deciding whether an empty
// selection is acceptable is up to the caller. A malformed expr yields a
// *RangeError.
func Select(full Set, s Strategy, expr string) (Set, error) {
	var sel Set
	switch s {
	case All:
		sel = full
	case Common:
		sel = filter(full, CommonRanges)
	case Chinese:
		sel = filter(full, ChineseRanges)
	case Custom:
		ranges, err := ParseRangeExpr(expr)
		if err != nil {
			return nil, err
		}
		sel = SelectRanges(full, ranges)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
	tracer().Debugf("strategy %s selected %d of %d codepoints", s, len(sel), len(full))
	return sel, nil
}

func filter(full Set, table *unicode.RangeTable) Set {
	sel := make(Set, 0, len(full)/4)
	for _, c := range full {
		if unicode.Is(table, c) {
			sel = append(sel, c)
		}
	}
	return sel
}
