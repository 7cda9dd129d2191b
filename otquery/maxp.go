package otquery

import "github.com/npillmayer/fontsubset/sfntio"

// MaxPTableInfo holds the fields of table 'maxp'. Version 0.5 tables (fonts
// with CFF outlines) carry the glyph count only.
type MaxPTableInfo struct {
	Version            uint32 // 16.16 fixed
	NumGlyphs          uint16
	HasExtendedProfile bool
	MaxPoints          uint16
	MaxContours        uint16
	MaxComponentDepth  uint16
}

const (
	maxpMinSize = 6
	maxpV10Size = 32
)

// MaxPInfo decodes table 'maxp'.
// Returns (info, true) on success, or (zero, false) if the table is missing
// or too short.
func MaxPInfo(otf *sfntio.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table("maxp")
	if len(b) < maxpMinSize {
		return info, false
	}
	info.Version = u32(b[0:])
	info.NumGlyphs = u16(b[4:])
	if info.Version != 0x00010000 || len(b) < maxpV10Size {
		return info, true
	}
	info.HasExtendedProfile = true
	info.MaxPoints = u16(b[6:])
	info.MaxContours = u16(b[8:])
	info.MaxComponentDepth = u16(b[30:])
	return info, true
}
