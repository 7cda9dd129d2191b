package subset

import (
	"encoding/binary"
	"slices"

	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// cmap subtable keys for Windows Unicode BMP and full repertoire.
var (
	keyBMP  = cmap.Key{PlatformID: 3, EncodingID: 1}
	keyFull = cmap.Key{PlatformID: 3, EncodingID: 10}
)

// BuildCmap creates a cmap table for a character to glyph mapping. The table
// always contains a format 4 subtable for the Basic Multilingual Plane; a
// format 12 subtable is added if the mapping contains supplementary
// codepoints.
func BuildCmap(mapping map[rune]glyph.ID) cmap.Table {
	bmp := cmap.Format4{}
	supplementary := false
	for r, gid := range mapping {
		if r > 0xFFFF {
			supplementary = true
			continue
		}
		bmp[uint16(r)] = gid
	}
	table := cmap.Table{keyBMP: bmp.Encode(0)}
	if supplementary {
		table[keyFull] = encodeFormat12(mapping)
	}
	return table
}

// encodeFormat12 writes a segmented coverage subtable, see
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
func encodeFormat12(mapping map[rune]glyph.ID) []byte {
	runes := make([]rune, 0, len(mapping))
	for r := range mapping {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	type group struct {
		start, end rune
		gid        glyph.ID
	}
	var groups []group
	for _, r := range runes {
		gid := mapping[r]
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if r == g.end+1 && gid == g.gid+glyph.ID(r-g.start) {
				g.end = r
				continue
			}
		}
		groups = append(groups, group{start: r, end: r, gid: gid})
	}
	length := 16 + 12*len(groups)
	data := make([]byte, length)
	binary.BigEndian.PutUint16(data[0:], 12)
	binary.BigEndian.PutUint32(data[4:], uint32(length))
	binary.BigEndian.PutUint32(data[12:], uint32(len(groups)))
	for i, g := range groups {
		p := data[16+12*i:]
		binary.BigEndian.PutUint32(p[0:], uint32(g.start))
		binary.BigEndian.PutUint32(p[4:], uint32(g.end))
		binary.BigEndian.PutUint32(p[8:], uint32(g.gid))
	}
	return data
}
