package otquery

import (
	"github.com/npillmayer/fontsubset/sfntio"
	"golang.org/x/image/font/sfnt"
)

// FontMetrics retrieves selected metrics of a font from tables 'hhea',
// 'OS/2' and 'head'.
func FontMetrics(otf *sfntio.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if hhea := otf.Table("hhea"); len(hhea) >= 12 {
		metrics.Ascent = sfnt.Units(i16(hhea[4:]))
		metrics.Descent = sfnt.Units(i16(hhea[6:]))
		metrics.LineGap = sfnt.Units(i16(hhea[8:]))
		metrics.MaxAdvance = sfnt.Units(u16(hhea[10:]))
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := otf.Table("OS/2"); len(os2) >= 74 {
			tracer().Debugf("OS/2")
			a := sfnt.Units(i16(os2[68:]))
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(i16(os2[70:]))
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
			metrics.LineGap = sfnt.Units(i16(os2[72:]))
		}
	}
	if head, ok := HeadInfo(otf); ok {
		metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	}
	return metrics
}
