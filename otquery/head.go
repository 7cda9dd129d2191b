package otquery

import (
	"fmt"

	"github.com/npillmayer/fontsubset/sfntio"
	"golang.org/x/image/font/sfnt"
)

// HeadTableInfo holds the fields of table 'head' a font report needs.
type HeadTableInfo struct {
	FontRevision     uint32 // 16.16 fixed
	Flags            uint16
	UnitsPerEm       uint16
	BBox             BoundingBox
	MacStyle         uint16
	IndexToLocFormat int16
}

const (
	headTableSize = 54
	headMagic     = 0x5F0F3CF5
)

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if the table is missing,
// too short or carries a wrong magic number.
func HeadInfo(otf *sfntio.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table("head")
	if len(b) < headTableSize || u32(b[12:]) != headMagic {
		tracer().Debugf("font has no usable table 'head'")
		return info, false
	}
	info.FontRevision = u32(b[4:])
	info.Flags = u16(b[16:])
	info.UnitsPerEm = u16(b[18:])
	info.BBox = BoundingBox{
		MinX: sfnt.Units(i16(b[36:])), MinY: sfnt.Units(i16(b[38:])),
		MaxX: sfnt.Units(i16(b[40:])), MaxY: sfnt.Units(i16(b[42:])),
	}
	info.MacStyle = u16(b[44:])
	info.IndexToLocFormat = i16(b[50:])
	return info, true
}

// Revision formats the font revision as a decimal number, e.g. "2.010".
func (h HeadTableInfo) Revision() string {
	return fmt.Sprintf("%.3f", float64(h.FontRevision)/65536)
}

// IsBold reports bit 0 of the macStyle field.
func (h HeadTableInfo) IsBold() bool {
	return h.MacStyle&0x01 != 0
}

// IsItalic reports bit 1 of the macStyle field.
func (h HeadTableInfo) IsItalic() bool {
	return h.MacStyle&0x02 != 0
}
