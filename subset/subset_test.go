package subset

import (
	"bytes"
	"errors"
	"testing"

	gotext "github.com/go-text/typesetting/font"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/internal/fonttest"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/sfnt/glyph"
)

// --- Test Suite Preparation ------------------------------------------------

type SubsetTestEnviron struct {
	suite.Suite
	font *fontsubset.ScalableFont
}

// listen for 'go test' command --> run test methods
func TestSubsetFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	suite.Run(t, new(SubsetTestEnviron))
}

// run once, before test suite methods
func (env *SubsetTestEnviron) SetupSuite() {
	data, err := fonttest.LatinAndCJK()
	env.Require().NoError(err, "cannot create test font")
	env.font, err = fontsubset.ParseFont(data)
	env.Require().NoError(err, "cannot parse test font")
}

// --- Tests -----------------------------------------------------------------

func (env *SubsetTestEnviron) TestCodepoints() {
	cps := Codepoints(env.font)
	want := codepoint.NewSet(append(fonttest.RuneRange(0x20, 0x7E), fonttest.RuneRange(0x4E00, 0x4E10)...)...)
	if diff := cmp.Diff(want, cps); diff != "" {
		env.T().Errorf("codepoints of test font (-want +got):\n%s", diff)
	}
	env.Empty(Codepoints(nil))
}

func (env *SubsetTestEnviron) TestSubsetAllFormats() {
	group := codepoint.NewSet('A', 'B', 'C', 0x4E00, 0x4E01)
	for _, format := range []sfntio.Format{sfntio.TTF, sfntio.OTF, sfntio.WOFF, sfntio.WOFF2} {
		engine, err := NewEngine(env.font, format)
		env.Require().NoError(err)
		env.Equal(format, engine.Format())
		data, err := engine.Subset(group)
		env.Require().NoError(err, "subsetting to %s", format)
		expected := format
		if format == sfntio.OTF {
			expected = sfntio.TTF // TrueType outlines stay TrueType
		}
		env.Equal(expected, sfntio.Sniff(data))
		env.requireCovers(data, group)
	}
}

func (env *SubsetTestEnviron) TestSubsetIsSmaller() {
	engine, err := NewEngine(env.font, sfntio.TTF)
	env.Require().NoError(err)
	small, err := engine.Subset(codepoint.NewSet('x'))
	env.Require().NoError(err)
	all, err := engine.Subset(Codepoints(env.font))
	env.Require().NoError(err)
	env.Less(len(small), len(all))
	//
	f, err := fontsubset.ParseFont(small)
	env.Require().NoError(err)
	env.Equal(2, f.NumGlyphs(), "expected .notdef and 'x'")
}

func (env *SubsetTestEnviron) TestSubsetSkipsMissing() {
	engine, err := NewEngine(env.font, sfntio.TTF)
	env.Require().NoError(err)
	data, err := engine.Subset(codepoint.NewSet('a', 0x0416))
	env.Require().NoError(err)
	env.requireCovers(data, codepoint.Set{'a'})
	//
	_, err = engine.Subset(codepoint.NewSet(0x0416, 0x0417))
	env.Require().Error(err)
	env.True(errors.Is(err, ErrNoGlyphs))
	env.Equal(fontsubset.KindSubsetEncoding, fontsubset.KindOf(err))
}

func (env *SubsetTestEnviron) TestSupplementaryPlane() {
	runes := []rune{'A', 0x20000, 0x20001, 0x2A6DF}
	data, err := fonttest.Remapped(BuildCmap, runes...)
	env.Require().NoError(err)
	f, err := fontsubset.ParseFont(data)
	env.Require().NoError(err)
	env.Equal(codepoint.NewSet(runes...), Codepoints(f))
	//
	engine, err := NewEngine(f, sfntio.WOFF2)
	env.Require().NoError(err)
	group := codepoint.NewSet(0x20000, 0x2A6DF)
	out, err := engine.Subset(group)
	env.Require().NoError(err)
	env.requireCovers(out, group)
}

func (env *SubsetTestEnviron) TestNewEngineErrors() {
	_, err := NewEngine(env.font, sfntio.Collection)
	env.Equal(fontsubset.KindConfig, fontsubset.KindOf(err))
	_, err = NewEngine(nil, sfntio.TTF)
	env.Equal(fontsubset.KindParse, fontsubset.KindOf(err))
}

// requireCovers checks that a subset font maps every codepoint of group to a
// glyph other than .notdef.
func (env *SubsetTestEnviron) requireCovers(data []byte, group codepoint.Set) {
	sfnt, _, err := sfntio.ToSFNT(data)
	env.Require().NoError(err)
	face, err := gotext.ParseTTF(bytes.NewReader(sfnt))
	env.Require().NoError(err, "subset font does not parse")
	for _, r := range group {
		gid, ok := face.Cmap.Lookup(r)
		env.True(ok && gid != 0, "subset font has no glyph for U+%04X", r)
	}
}

func TestBuildCmapFormat12(t *testing.T) {
	data := encodeFormat12(map[rune]glyph.ID{0x41: 1, 0x42: 2, 0x43: 3, 0x20000: 4, 0x20002: 5})
	// groups: 41-43 -> 1, 20000 -> 4, 20002 -> 5
	if len(data) != 16+3*12 {
		t.Fatalf("expected 3 groups, got subtable of length %d", len(data))
	}
	if data[1] != 12 {
		t.Errorf("expected format 12, got %d", data[1])
	}
	table := BuildCmap(map[rune]glyph.ID{0x41: 1})
	if _, ok := table[keyFull]; ok {
		t.Errorf("expected no format 12 subtable for BMP-only mapping")
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	_, err := Encode(goregular.TTF, sfntio.Unknown)
	if fontsubset.KindOf(err) != fontsubset.KindSubsetEncoding {
		t.Fatalf("expected subset encoding error, got %v", err)
	}
	data, err := Encode(goregular.TTF, sfntio.TTF)
	if err != nil || !bytes.Equal(data, goregular.TTF) {
		t.Fatalf("expected TTF encoding to be the identity")
	}
}
