package sfntio

import (
	"fmt"
	"strings"
)

// Format is a font container format.
type Format int

const (
	Unknown    Format = iota
	TTF               // SFNT with TrueType outlines
	OTF               // SFNT with CFF outlines ('OTTO')
	WOFF              // WOFF 1.0
	WOFF2             // WOFF 2.0
	Collection        // TrueType/OpenType collection ('ttcf')
)

// Container signatures, as found in the first four bytes of a font file.
const (
	SignatureTrueType uint32 = 0x00010000
	SignatureApple    uint32 = 0x74727565 // 'true'
	SignatureCFF      uint32 = 0x4F54544F // 'OTTO'
	SignatureWOFF     uint32 = 0x774F4646 // 'wOFF'
	SignatureWOFF2    uint32 = 0x774F4632 // 'wOF2'
	SignatureTTC      uint32 = 0x74746366 // 'ttcf'
)

var formatNames = map[Format]string{
	Unknown:    "unknown",
	TTF:        "ttf",
	OTF:        "otf",
	WOFF:       "woff",
	WOFF2:      "woff2",
	Collection: "ttc",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file name extension for output files, without a dot.
func (f Format) Extension() string {
	return f.String()
}

// CSSFormat returns the format hint for a CSS `src: url(…) format(…)` descriptor.
func (f Format) CSSFormat() string {
	switch f {
	case TTF:
		return "truetype"
	case OTF:
		return "opentype"
	case WOFF:
		return "woff"
	case WOFF2:
		return "woff2"
	}
	return ""
}

// Label is a human readable name of the container, as used in reports.
func (f Format) Label() string {
	switch f {
	case TTF:
		return "TrueType"
	case OTF:
		return "OpenType/CFF"
	case WOFF:
		return "WOFF"
	case WOFF2:
		return "WOFF2"
	case Collection:
		return "Font Collection"
	}
	return "unknown"
}

// IsOutput reports whether f is one of the formats fonts may be written in.
func (f Format) IsOutput() bool {
	return f == TTF || f == OTF || f == WOFF || f == WOFF2
}

// ParseFormat maps an output format name (ttf, otf, woff, woff2) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ttf":
		return TTF, nil
	case "otf":
		return OTF, nil
	case "woff":
		return WOFF, nil
	case "woff2":
		return WOFF2, nil
	}
	return Unknown, fmt.Errorf("%w: output format %q (expected ttf|otf|woff|woff2)", ErrUnsupportedFormat, s)
}

// Sniff inspects the signature of font data.
func Sniff(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}
	switch u32(data) {
	case SignatureTrueType, SignatureApple:
		return TTF
	case SignatureCFF:
		return OTF
	case SignatureWOFF:
		return WOFF
	case SignatureWOFF2:
		return WOFF2
	case SignatureTTC:
		return Collection
	}
	return Unknown
}

// ToSFNT returns plain SFNT bytes for data in any supported input container,
// together with the container format found.
func ToSFNT(data []byte) ([]byte, Format, error) {
	format := Sniff(data)
	tracer().Debugf("font container format is %s", format)
	switch format {
	case TTF, OTF:
		return data, format, nil
	case WOFF:
		sfnt, err := DecodeWOFF(data)
		return sfnt, format, err
	case WOFF2:
		sfnt, err := DecodeWOFF2(data)
		return sfnt, format, err
	case Collection:
		return nil, format, fmt.Errorf("%w: font collections", ErrUnsupportedFormat)
	}
	return nil, format, fmt.Errorf("%w: unknown signature", ErrUnsupportedFormat)
}
