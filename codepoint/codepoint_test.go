package codepoint

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type CodepointTestEnviron struct {
	suite.Suite
	full Set
}

// listen for 'go test' command --> run test methods
func TestCodepointFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	suite.Run(t, new(CodepointTestEnviron))
}

// run once, before test suite methods
func (env *CodepointTestEnviron) SetupSuite() {
	// a font with some Latin, punctuation, CJK (BMP and plane 2) and Cyrillic
	var runes []rune
	for c := rune(0x20); c <= 0x7E; c++ {
		runes = append(runes, c)
	}
	runes = append(runes, 0x09, 0xA0, 0xE9, 0xFF, 0x100, 0x1FFF, 0x2000, 0x2014, 0x206F, 0x2070)
	runes = append(runes, 0x0410, 0x0411, 0x33FF, 0x3400, 0x4DBF, 0x4DC0)
	for c := rune(0x4E00); c <= 0x4E10; c++ {
		runes = append(runes, c)
	}
	runes = append(runes, 0x9FFF, 0xA000, 0x1FFFF, 0x20000, 0x2A6DF, 0x2A6E0)
	env.full = NewSet(runes...)
}

// --- Tests -----------------------------------------------------------------

func (env *CodepointTestEnviron) TestNewSet() {
	s := NewSet(5, 3, -1, 3, 1)
	env.Equal(Set{1, 3, 5}, s)
	env.True(s.Contains(3))
	env.False(s.Contains(4))
	env.Equal(0, NewSet().Len())
}

func (env *CodepointTestEnviron) TestSelectAll() {
	sel, err := Select(env.full, All, "")
	env.Require().NoError(err)
	if diff := cmp.Diff(env.full, sel); diff != "" {
		env.T().Errorf("strategy all changed the set (-want +got):\n%s", diff)
	}
}

func (env *CodepointTestEnviron) TestSelectBlocks() {
	for _, s := range []Strategy{Common, Chinese} {
		sel, err := Select(env.full, s, "")
		env.Require().NoError(err)
		inBlocks := func(c rune) bool {
			for _, b := range Blocks(s) {
				if b.Contains(c) {
					return true
				}
			}
			return false
		}
		for _, c := range sel {
			env.True(inBlocks(c), "%s: U+%04X outside of blocks", s, c)
			env.True(env.full.Contains(c), "%s: U+%04X not in font", s, c)
		}
		for _, c := range env.full {
			if inBlocks(c) {
				env.True(sel.Contains(c), "%s: omitted U+%04X", s, c)
			}
		}
		for i := 1; i < len(sel); i++ {
			env.Less(sel[i-1], sel[i], "selection not ascending")
		}
	}
}

func (env *CodepointTestEnviron) TestSelectCommonBoundaries() {
	sel, err := Select(env.full, Common, "")
	env.Require().NoError(err)
	env.Equal(0x5F+6, sel.Len()) // 0x20..0x7E plus 0xA0 0xE9 0xFF 0x2000 0x2014 0x206F
	env.False(sel.Contains(0x09))
	env.False(sel.Contains(0x100))
	env.False(sel.Contains(0x2070))
}

func (env *CodepointTestEnviron) TestSelectChineseBoundaries() {
	sel, err := Select(env.full, Chinese, "")
	env.Require().NoError(err)
	want := Set{0x3400, 0x4DBF}
	for c := rune(0x4E00); c <= 0x4E10; c++ {
		want = append(want, c)
	}
	want = append(want, 0x9FFF, 0x20000, 0x2A6DF)
	if diff := cmp.Diff(want, sel); diff != "" {
		env.T().Errorf("chinese selection (-want +got):\n%s", diff)
	}
}

func (env *CodepointTestEnviron) TestSelectCustom() {
	full := NewSet(0x41, 0x42, 0x43, 0x44, 0x45, 0x46)
	sel, err := Select(full, Custom, "U+0041-0043,U+0046")
	env.Require().NoError(err)
	env.Equal(Set{0x41, 0x42, 0x43, 0x46}, sel)
	//
	sel, err = Select(full, Custom, "   ")
	env.Require().NoError(err)
	env.Empty(sel)
	//
	sel, err = Select(full, Custom, "0042-0044, u+0043, 44")
	env.Require().NoError(err)
	env.Equal(Set{0x42, 0x43, 0x44}, sel, "expected overlapping tokens to be de-duplicated")
	//
	sel, err = Select(full, Custom, "U+4E00-9FFF")
	env.Require().NoError(err)
	env.Empty(sel, "expected no match to be an empty selection, not an error")
}

func (env *CodepointTestEnviron) TestParseRangeExprErrors() {
	for _, expr := range []string{
		"U+00G1",
		"0043-0041",
		"0041-",
		"-0041",
		"0041,,0042",
		"0041,",
		"U+",
		"110000",
		"0041-0042-0043",
		"0x41",
	} {
		_, err := ParseRangeExpr(expr)
		env.Require().Error(err, "expected %q to fail", expr)
		env.True(errors.Is(err, ErrRangeExpression), "expected ErrRangeExpression for %q", expr)
		var rerr *RangeError
		env.Require().True(errors.As(err, &rerr))
	}
	_, err := ParseRangeExpr("0041, 0043-zz, 0046")
	var rerr *RangeError
	env.Require().True(errors.As(err, &rerr))
	env.Equal("0043-zz", rerr.Token, "expected offending token to be reported")
	//
	_, err = Select(env.full, Custom, "fish")
	env.True(errors.Is(err, ErrRangeExpression))
}

func (env *CodepointTestEnviron) TestParseRangeExpr() {
	rs, err := ParseRangeExpr(" U+0041 - U+0043 , 10FFFF,u+20000-2A6DF ")
	env.Require().NoError(err)
	want := []Range{{0x41, 0x43}, {0x10FFFF, 0x10FFFF}, {0x20000, 0x2A6DF}}
	if diff := cmp.Diff(want, rs); diff != "" {
		env.T().Errorf("parsed ranges (-want +got):\n%s", diff)
	}
}

func (env *CodepointTestEnviron) TestSplitByCount() {
	groups, err := Split(Set{1, 2, 3, 4, 5}, ByCount, 2)
	env.Require().NoError(err)
	if diff := cmp.Diff([]Set{{1, 2}, {3, 4}, {5}}, groups); diff != "" {
		env.T().Errorf("byCount groups (-want +got):\n%s", diff)
	}
	_, err = Split(Set{1, 2}, ByCount, 0)
	env.True(errors.Is(err, ErrInvalidCount))
	groups, err = Split(Set{1, 2}, ByCount, 1000)
	env.Require().NoError(err)
	env.Len(groups, 1)
}

func (env *CodepointTestEnviron) TestSplitByRange() {
	groups, err := Split(Set{10, 11, 1024, 1025, 2048}, ByRange, 0)
	env.Require().NoError(err)
	if diff := cmp.Diff([]Set{{10, 11}, {1024, 1025}, {2048}}, groups); diff != "" {
		env.T().Errorf("byRange groups (-want +got):\n%s", diff)
	}
	// consecutiveness bridges a block boundary, sameness of block bridges gaps
	groups, err = Split(Set{1022, 1023, 1024, 1030, 2000, 5000}, ByRange, 0)
	env.Require().NoError(err)
	if diff := cmp.Diff([]Set{{1022, 1023, 1024, 1030, 2000}, {5000}}, groups); diff != "" {
		env.T().Errorf("byRange groups (-want +got):\n%s", diff)
	}
}

func (env *CodepointTestEnviron) TestSplitSingle() {
	groups, err := Split(env.full, Single, 0)
	env.Require().NoError(err)
	env.Len(groups, 1)
	env.Equal(env.full, groups[0])
}

func (env *CodepointTestEnviron) TestSplitEmpty() {
	for _, s := range []SplitStrategy{Single, ByRange, ByCount} {
		_, err := Split(nil, s, 5)
		env.True(errors.Is(err, ErrEmptySequence), "strategy %s", s)
	}
}

func (env *CodepointTestEnviron) TestSplitCoverage() {
	for _, s := range []SplitStrategy{Single, ByRange, ByCount} {
		groups, err := Split(env.full, s, 7)
		env.Require().NoError(err)
		var concat Set
		seen := make(map[rune]bool)
		for _, g := range groups {
			env.NotEmpty(g)
			for i, c := range g {
				env.False(seen[c], "%s: U+%04X in more than one group", s, c)
				seen[c] = true
				if i > 0 {
					env.Less(g[i-1], c)
				}
			}
			concat = append(concat, g...)
		}
		if diff := cmp.Diff(env.full, concat); diff != "" {
			env.T().Errorf("%s: groups do not cover input (-want +got):\n%s", s, diff)
		}
	}
}

func (env *CodepointTestEnviron) TestFormatRanges() {
	env.Equal("U+0041-0043, U+0046", FormatRanges(Set{65, 66, 67, 70}))
	env.Equal("U+0000-FFFF", FormatRanges(nil))
	env.Equal("U+0000-FFFF", FormatRanges(Set{}))
	env.Equal("U+00E9", FormatRanges(Set{0xE9}))
	env.Equal("U+4E00-4E10, U+20000", FormatRanges(NewSet(0x20000, 0x4E00, 0x4E01, 0x4E02,
		0x4E03, 0x4E04, 0x4E05, 0x4E06, 0x4E07, 0x4E08, 0x4E09, 0x4E0A, 0x4E0B, 0x4E0C,
		0x4E0D, 0x4E0E, 0x4E0F, 0x4E10)))
}

func (env *CodepointTestEnviron) TestFormatRoundTrip() {
	for _, seq := range []Set{{65, 66, 67, 70}, env.full, {0x10FFFF}, {1, 3, 5, 7}} {
		rs, err := ParseRangeExpr(FormatRanges(seq))
		env.Require().NoError(err)
		n := 0
		for _, r := range rs {
			n += r.Len()
		}
		env.Equal(seq.Len(), n, "range lengths do not sum up for %v", seq)
		all := make(Set, 0, n)
		for _, r := range rs {
			for c := r.Lo; c <= r.Hi; c++ {
				all = append(all, c)
			}
		}
		if diff := cmp.Diff(seq, all); diff != "" {
			env.T().Errorf("round trip (-want +got):\n%s", diff)
		}
	}
}

func TestParseStrategies(t *testing.T) {
	for i, name := range []string{"all", "common", "Chinese", "custom"} {
		s, err := ParseStrategy(name)
		if err != nil || s != Strategy(i) {
			t.Errorf("ParseStrategy(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseStrategy("latin"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected unknown strategy error, got %v", err)
	}
	for i, name := range []string{"single", "byrange", "byCount"} {
		s, err := ParseSplitStrategy(name)
		if err != nil || s != SplitStrategy(i) {
			t.Errorf("ParseSplitStrategy(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseSplitStrategy("byBlock"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected unknown split strategy error, got %v", err)
	}
}
