/*
Package subset reads the codepoints of a font and cuts fonts down to a given
set of codepoints.

Codepoint extraction uses the cmap of the go-text font view, subsetting is
done with seehuhn.de/go/sfnt. A subset font keeps glyph 0 (.notdef), the
glyphs of the requested codepoints and the components of composite glyphs.
OpenType layout tables (GDEF, GSUB, GPOS) are dropped, as glyph IDs change and
the tables would have to be rewritten.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package subset

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// ErrNoGlyphs is returned if none of the codepoints of a group is mapped to
// a glyph.
var ErrNoGlyphs = errors.New("no glyphs for codepoint group")

// Codepoints returns the set of codepoints the font maps to a glyph.
// Codepoints mapped to glyph 0 (.notdef) are not reported.
func Codepoints(f *fontsubset.ScalableFont) codepoint.Set {
	if f == nil || f.Face == nil || f.Face.Cmap == nil {
		return codepoint.Set{}
	}
	var runes []rune
	iter := f.Face.Cmap.Iter()
	for iter.Next() {
		r, gid := iter.Char()
		if gid == 0 {
			continue
		}
		runes = append(runes, r)
	}
	set := codepoint.NewSet(runes...)
	tracer().Infof("found %d characters in font", set.Len())
	return set
}

// Engine creates subset fonts from one source font, encoded in one output
// format. An Engine is not safe for concurrent use.
type Engine struct {
	font   *fontsubset.ScalableFont
	sfnt   *sfnt.Font
	format sfntio.Format
}

// NewEngine prepares subsetting of f. format must be one of the output
// formats (ttf, otf, woff, woff2). Errors are of kind KindParse or KindConfig.
func NewEngine(f *fontsubset.ScalableFont, format sfntio.Format) (*Engine, error) {
	if !format.IsOutput() {
		return nil, fontsubset.Errorf(fontsubset.KindConfig, "subset", "unsupported output format %s", format)
	}
	if f == nil || f.Face == nil {
		return nil, fontsubset.Errorf(fontsubset.KindParse, "subset", "no font")
	}
	info, err := sfnt.Read(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindParse, "subset", err)
	}
	return &Engine{font: f, sfnt: info, format: format}, nil
}

// Format returns the output format of e.
func (e *Engine) Format() sfntio.Format {
	return e.format
}

// Subset creates a font containing the glyphs for group, encoded in the
// engine's output format. Codepoints the font has no glyph for are skipped.
// Errors are of kind KindSubsetEncoding.
func (e *Engine) Subset(group codepoint.Set) ([]byte, error) {
	gids := make(map[rune]glyph.ID, len(group))
	for _, r := range group {
		gid, ok := e.font.Face.Cmap.Lookup(r)
		if !ok || gid == 0 {
			tracer().Debugf("font has no glyph for U+%04X, skipped", r)
			continue
		}
		gids[r] = glyph.ID(gid)
	}
	if len(gids) == 0 {
		return nil, fontsubset.WrapError(fontsubset.KindSubsetEncoding, "subset",
			fmt.Errorf("%w: %s", ErrNoGlyphs, codepoint.FormatRanges(group)))
	}
	glyphs := e.glyphList(gids)
	newGID := make(map[glyph.ID]glyph.ID, len(glyphs))
	for i, gid := range glyphs {
		newGID[gid] = glyph.ID(i)
	}
	mapping := make(map[rune]glyph.ID, len(gids))
	for r, gid := range gids {
		mapping[r] = newGID[gid]
	}
	//
	font := e.sfnt.Clone()
	font.CMapTable = nil
	font.Gdef = nil
	font.Gsub = nil
	font.Gpos = nil
	sub := font.Subset(glyphs)
	sub.CMapTable = BuildCmap(mapping)
	//
	buf := &bytes.Buffer{}
	if _, err := sub.Write(buf); err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindSubsetEncoding, "write subset", err)
	}
	data, err := Encode(buf.Bytes(), e.format)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("subset with %d codepoints and %d glyphs: %d bytes %s",
		len(mapping), len(glyphs), len(data), e.format)
	return data, nil
}

// glyphList returns .notdef followed by the glyphs of gids and all glyphs
// these reference as composite components, in ascending order of glyph ID.
func (e *Engine) glyphList(gids map[rune]glyph.ID) []glyph.ID {
	seen := map[glyph.ID]bool{0: true}
	todo := make([]glyph.ID, 0, len(gids))
	for _, gid := range gids {
		if !seen[gid] {
			seen[gid] = true
			todo = append(todo, gid)
		}
	}
	outlines, isGlyf := e.sfnt.Outlines.(*glyf.Outlines)
	list := []glyph.ID{}
	for len(todo) > 0 {
		gid := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		list = append(list, gid)
		if !isGlyf || int(gid) >= len(outlines.Glyphs) {
			continue
		}
		for _, comp := range outlines.Glyphs[gid].Components() {
			if !seen[comp] {
				seen[comp] = true
				todo = append(todo, comp)
			}
		}
	}
	slices.Sort(list)
	return append([]glyph.ID{0}, list...)
}

// Encode wraps plain SFNT data into an output container format. TTF and OTF
// output is the SFNT data itself. Errors are of kind KindSubsetEncoding.
func Encode(data []byte, format sfntio.Format) ([]byte, error) {
	var err error
	switch format {
	case sfntio.TTF, sfntio.OTF:
	case sfntio.WOFF:
		data, err = sfntio.EncodeWOFF(data)
	case sfntio.WOFF2:
		data, err = sfntio.EncodeWOFF2(data)
	default:
		err = fmt.Errorf("%w: %s", sfntio.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindSubsetEncoding, "encode "+format.String(), err)
	}
	return data, nil
}
