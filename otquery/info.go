package otquery

import (
	"github.com/npillmayer/fontsubset/sfntio"
	"golang.org/x/image/font/sfnt"
)

// FontInfo is a summary of a font, as shown by the info command and the
// README of a subset package.
type FontInfo struct {
	Family       string
	Subfamily    string
	FullName     string
	Version      string
	Type         string // "TrueType" or "OpenType (CFF)"
	NumGlyphs    int
	UnitsPerEm   int
	BBox         BoundingBox
	Metrics      FontMetricsInfo
	LayoutTables []string // OpenType layout tables present
	Tables       []string // all table tags
}

// Describe collects a FontInfo from the tables of a font.
func Describe(otf *sfntio.Font) FontInfo {
	info := FontInfo{
		Family:       Name(otf, sfnt.NameIDFamily),
		Subfamily:    Name(otf, sfnt.NameIDSubfamily),
		FullName:     Name(otf, sfnt.NameIDFull),
		Version:      Name(otf, sfnt.NameIDVersion),
		Type:         FontType(otf),
		Metrics:      FontMetrics(otf),
		LayoutTables: LayoutTables(otf),
	}
	if otf != nil {
		info.Tables = otf.TableTags()
	}
	if head, ok := HeadInfo(otf); ok {
		info.UnitsPerEm = int(head.UnitsPerEm)
		info.BBox = head.BBox
		if info.Version == "" {
			info.Version = head.Revision()
		}
	}
	if maxp, ok := MaxPInfo(otf); ok {
		info.NumGlyphs = int(maxp.NumGlyphs)
	}
	return info
}

// FontType returns "TrueType" for fonts with glyf outlines, "OpenType (CFF)"
// for CFF outlines, and "unknown" otherwise.
func FontType(otf *sfntio.Font) string {
	switch {
	case otf == nil:
		return "unknown"
	case otf.Has("glyf"):
		return "TrueType"
	case otf.Has("CFF ") || otf.Has("CFF2"):
		return "OpenType (CFF)"
	}
	return "unknown"
}

var layoutTableTags = []string{"BASE", "GDEF", "GPOS", "GSUB", "JSTF", "kern", "morx"}

// LayoutTables returns the tags of the layout tables present in a font.
// Subsetting drops these tables.
func LayoutTables(otf *sfntio.Font) []string {
	var tags []string
	if otf == nil {
		return tags
	}
	for _, tag := range layoutTableTags {
		if otf.Has(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}
