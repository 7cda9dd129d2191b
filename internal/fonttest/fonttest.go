// Package fonttest creates small fonts with a known character map, for tests.
//
// Fonts are derived from Go Regular (golang.org/x/image/font/gofont), with the
// original cmap replaced, so that tests can ask for fonts covering e.g. CJK
// codepoints without shipping large font files.
package fonttest

import (
	"bytes"
	"fmt"

	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// CmapBuilder encodes a character to glyph mapping as a cmap table.
type CmapBuilder func(map[rune]glyph.ID) cmap.Table

// Format4 is a CmapBuilder for BMP-only mappings.
func Format4(mapping map[rune]glyph.ID) cmap.Table {
	f4 := cmap.Format4{}
	for r, gid := range mapping {
		if r <= 0xFFFF {
			f4[uint16(r)] = gid
		}
	}
	return cmap.Table{{PlatformID: 3, EncodingID: 1}: f4.Encode(0)}
}

// Font returns a TrueType font mapping exactly runes, all of which must be
// within the BMP. ASCII characters keep their Go Regular glyph, all other
// codepoints borrow the glyph of a capital letter.
func Font(runes ...rune) ([]byte, error) {
	return Remapped(Format4, runes...)
}

// Remapped is like Font, using a custom cmap encoder.
func Remapped(build CmapBuilder, runes ...rune) ([]byte, error) {
	info, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	orig, err := info.CMapTable.GetBest()
	if err != nil {
		return nil, err
	}
	mapping := make(map[rune]glyph.ID, len(runes))
	for _, r := range runes {
		gid := glyph.ID(0)
		if r < 0x7F {
			gid = orig.Lookup(r)
		}
		if gid == 0 {
			gid = orig.Lookup('A' + r%26)
		}
		if gid == 0 {
			return nil, fmt.Errorf("no glyph for U+%04X", r)
		}
		mapping[r] = gid
	}
	info.CMapTable = build(mapping)
	buf := &bytes.Buffer{}
	if _, err := info.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RuneRange returns the codepoints from lo to hi, inclusive.
func RuneRange(lo, hi rune) []rune {
	runes := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		runes = append(runes, r)
	}
	return runes
}

// LatinAndCJK returns a font covering U+0020–U+007E and U+4E00–U+4E10.
func LatinAndCJK() ([]byte, error) {
	return Font(append(RuneRange(0x20, 0x7E), RuneRange(0x4E00, 0x4E10)...)...)
}
