/*
Package fontsubset cuts fonts into web font subsets.

A run of the subsetting pipeline takes one font, selects the Unicode
codepoints to keep, splits them into groups and writes one font file per
group, together with CSS @font-face rules using `unicode-range`, a README and
a zip archive. Browsers will then download only the font files covering
characters actually present on a page.

The work is spread over a couple of packages:

▪︎ package codepoint selects, partitions and formats codepoint sets; it is pure
and does no I/O.

▪︎ package subset reads the codepoints of a font and produces subset fonts.

▪︎ package sfntio unwraps and wraps font containers (TTF/OTF, WOFF, WOFF2).

▪︎ package pipeline drives a complete run, with packages fetch and bundle as
its I/O helpers.

This package holds the font type shared between them and the error taxonomy
used for reporting failed runs.

# Status

Font collections (*.ttc) are not supported, neither are WOFF2 fonts using
table transforms as input.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

CSS unicode-range:
https://developer.mozilla.org/en-US/docs/Web/CSS/@font-face/unicode-range

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontsubset

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// DefaultFamily is used as CSS font-family if a font does not tell its family name.
const DefaultFamily = "SubsetFont"

// ScalableFont is an internal representation of an outline-font of type
// TTF of OTF, possibly delivered in a WOFF container.
type ScalableFont struct {
	Fontname string        // full font name, from table 'name'
	Filepath string        // file path or URL, if known
	Binary   []byte        // raw data as delivered
	Data     []byte        // plain SFNT data, unwrapped from WOFF containers
	Format   sfntio.Format // container format of Binary
	SFNT     *sfnt.Font    // the font's container, used for names
	Face     *font.Face    // go-text view of the font, used for cmap access
}

// LoadFont loads a font (TTF, OTF, WOFF or WOFF2) from a file.
func LoadFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, WrapError(KindIO, "load font", err)
	}
	f, err := ParseFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseFont loads a font (TTF, OTF, WOFF or WOFF2) from memory.
// Errors are of kind KindParse.
func ParseFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.Data, f.Format, err = sfntio.ToSFNT(fbytes); err != nil {
		return nil, WrapError(KindParse, "parse font", err)
	}
	if f.SFNT, err = sfnt.Parse(f.Data); err != nil {
		return nil, WrapError(KindParse, "parse font", err)
	}
	if f.Face, err = font.ParseTTF(bytes.NewReader(f.Data)); err != nil {
		return nil, WrapError(KindParse, "parse font", err)
	}
	if name, nerr := f.SFNT.Name(nil, sfnt.NameIDFull); nerr == nil {
		f.Fontname = name
	}
	tracer().Debugf("loaded and parsed %s font %q", f.Format, f.Fontname)
	return f, nil
}

// Family returns the family name of the font, falling back to DefaultFamily.
func (f *ScalableFont) Family() string {
	if f == nil {
		return DefaultFamily
	}
	if f.SFNT != nil {
		if name, err := f.SFNT.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
			return name
		}
	}
	if f.Face != nil {
		if name := f.Face.Describe().Family; name != "" {
			return name
		}
	}
	return DefaultFamily
}

// Subfamily returns the style name of the font, e.g. "Regular".
func (f *ScalableFont) Subfamily() string {
	if f != nil && f.SFNT != nil {
		if name, err := f.SFNT.Name(nil, sfnt.NameIDSubfamily); err == nil && name != "" {
			return name
		}
	}
	return "Regular"
}

// NumGlyphs returns the number of glyphs in the font.
func (f *ScalableFont) NumGlyphs() int {
	if f == nil || f.SFNT == nil {
		return 0
	}
	return f.SFNT.NumGlyphs()
}

// BaseName derives a file name stem from the font's file path or URL: the
// base name without extension, restricted to [A-Za-z0-9._-]. It falls back
// to "font".
func (f *ScalableFont) BaseName() string {
	if f == nil {
		return "font"
	}
	return BaseName(f.Filepath)
}

// BaseName derives a file name stem from a path or URL; see ScalableFont.BaseName.
func BaseName(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 && strings.Contains(source, "://") {
		source = source[:i]
	}
	base := path.Base(filepath.ToSlash(source))
	base = strings.TrimSuffix(base, path.Ext(base))
	name := make([]byte, 0, len(base))
	for i := 0; i < len(base); i++ {
		c := base[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '.', c == '_', c == '-':
			name = append(name, c)
		default:
			name = append(name, '_')
		}
	}
	for len(name) > 0 && (name[0] == '.' || name[0] == '_') {
		name = name[1:]
	}
	if len(name) == 0 {
		return "font"
	}
	return string(name)
}
