package sfntio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/andybalholm/brotli"
	"seehuhn.de/go/sfnt/header"
)

// WOFF 2.0 layout, see https://www.w3.org/TR/WOFF2/#woff20Header.
const (
	woff2HeaderSize   = 48
	woff2MajorVersion = 1
	woff2ArbitraryTag = 0x3f
	woff2NullGlyf     = 3 << 6 // transform version 3 is the null transform for glyf/loca
)

// woff2KnownTags lists the tags which are encoded by their index in the
// table directory flags byte.
var woff2KnownTags = [...]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

type woff2Header struct {
	Signature           uint32
	Flavor              uint32
	Length              uint32
	NumTables           uint16
	Reserved            uint16
	TotalSfntSize       uint32
	TotalCompressedSize uint32
	MajorVersion        uint16
	MinorVersion        uint16
	MetaOffset          uint32
	MetaLength          uint32
	MetaOrigLength      uint32
	PrivOffset          uint32
	PrivLength          uint32
}

// EncodeWOFF2 wraps SFNT bytes into a WOFF 2.0 container. All tables use the
// null transform and are compressed as one Brotli stream.
func EncodeWOFF2(sfnt []byte) ([]byte, error) {
	font, err := ReadTables(sfnt)
	if err != nil {
		return nil, err
	}
	tables := woff2Order(font.Tables)
	dir := &bytes.Buffer{}
	stream := &bytes.Buffer{}
	for _, t := range tables {
		writeWOFF2Entry(dir, t)
		stream.Write(t.Data)
	}
	compressed := &bytes.Buffer{}
	bw := brotli.NewWriterLevel(compressed, brotli.BestCompression)
	if _, err := bw.Write(stream.Bytes()); err != nil {
		return nil, fmt.Errorf("WOFF2 compression: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("WOFF2 compression: %w", err)
	}
	length := uint32(woff2HeaderSize + dir.Len() + compressed.Len())
	h := woff2Header{
		Signature:           SignatureWOFF2,
		Flavor:              font.ScalerType,
		Length:              pad4(length),
		NumTables:           uint16(len(tables)),
		TotalSfntSize:       font.sfntSize(),
		TotalCompressedSize: uint32(compressed.Len()),
		MajorVersion:        woff2MajorVersion,
	}
	out := bytes.NewBuffer(make([]byte, 0, h.Length))
	_ = binary.Write(out, binary.BigEndian, h)
	out.Write(dir.Bytes())
	out.Write(compressed.Bytes())
	for out.Len()%4 != 0 {
		out.WriteByte(0)
	}
	tracer().Debugf("encoded WOFF2 font: %d -> %d bytes", len(sfnt), out.Len())
	return out.Bytes(), nil
}

// DecodeWOFF2 unwraps a WOFF 2.0 font into plain SFNT bytes. Only fonts
// without table transforms can be decoded; this includes every font written
// by EncodeWOFF2.
func DecodeWOFF2(data []byte) ([]byte, error) {
	if len(data) < woff2HeaderSize {
		return nil, fmt.Errorf("%w: WOFF2 header truncated", ErrMalformed)
	}
	var h woff2Header
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if h.Signature != SignatureWOFF2 {
		return nil, fmt.Errorf("%w: not a WOFF2 font", ErrUnsupportedFormat)
	}
	type entry struct {
		tag    string
		length uint32
	}
	entries := make([]entry, 0, h.NumTables)
	pos := woff2HeaderSize
	for range int(h.NumTables) {
		if pos >= len(data) {
			return nil, fmt.Errorf("%w: WOFF2 table directory", ErrMalformed)
		}
		flags := data[pos]
		pos++
		var tag string
		if index := int(flags & woff2ArbitraryTag); index == woff2ArbitraryTag {
			if pos+4 > len(data) {
				return nil, fmt.Errorf("%w: WOFF2 table directory", ErrMalformed)
			}
			tag = string(data[pos : pos+4])
			pos += 4
		} else if index < len(woff2KnownTags) {
			tag = woff2KnownTags[index]
		} else {
			return nil, fmt.Errorf("%w: WOFF2 tag index %d", ErrMalformed, index)
		}
		length, n, err := readUIntBase128(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		version := flags >> 6
		transformed := version != 0
		if tag == "glyf" || tag == "loca" {
			transformed = version != 3
		}
		if transformed {
			return nil, fmt.Errorf("%w: WOFF2 table %q uses transform %d", ErrUnsupportedFormat, tag, version)
		}
		entries = append(entries, entry{tag: tag, length: length})
	}
	end := uint64(pos) + uint64(h.TotalCompressedSize)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: WOFF2 compressed stream truncated", ErrMalformed)
	}
	var total uint64
	for _, e := range entries {
		total += uint64(e.length)
	}
	if total > maxTableSize*4 {
		return nil, fmt.Errorf("%w: WOFF2 font too large", ErrMalformed)
	}
	br := brotli.NewReader(bytes.NewReader(data[pos:end]))
	stream := make([]byte, total)
	if _, err := io.ReadFull(br, stream); err != nil {
		return nil, fmt.Errorf("%w: WOFF2 stream: %v", ErrMalformed, err)
	}
	tables := make(map[string][]byte, len(entries))
	for _, e := range entries {
		tables[e.tag] = stream[:e.length]
		stream = stream[e.length:]
	}
	tracer().Debugf("decoded WOFF2 font with %d tables", len(tables))
	buf := &bytes.Buffer{}
	if _, err := header.Write(buf, h.Flavor, tables); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return buf.Bytes(), nil
}

// woff2Order returns the tables in directory order, with 'loca' directly
// following 'glyf'.
func woff2Order(tables []Table) []Table {
	ordered := make([]Table, 0, len(tables))
	var loca *Table
	for i := range tables {
		if tables[i].Tag == "loca" {
			loca = &tables[i]
		}
	}
	for _, t := range tables {
		if t.Tag == "loca" {
			continue
		}
		ordered = append(ordered, t)
		if t.Tag == "glyf" && loca != nil {
			ordered = append(ordered, *loca)
			loca = nil
		}
	}
	if loca != nil {
		ordered = append(ordered, *loca)
	}
	return ordered
}

func writeWOFF2Entry(dir *bytes.Buffer, t Table) {
	index := slices.Index(woff2KnownTags[:], t.Tag)
	var flags byte
	if index < 0 {
		flags = woff2ArbitraryTag
	} else {
		flags = byte(index)
	}
	if t.Tag == "glyf" || t.Tag == "loca" {
		flags |= woff2NullGlyf
	}
	dir.WriteByte(flags)
	if index < 0 {
		dir.WriteString(t.Tag)
	}
	dir.Write(appendUIntBase128(nil, uint32(len(t.Data))))
}

// appendUIntBase128 encodes v as a variable-length big-endian base-128 number,
// without leading zero bytes.
func appendUIntBase128(b []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7f)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7f) | 0x80
	}
	return append(b, tmp[i:]...)
}

// readUIntBase128 decodes a number written by appendUIntBase128 and returns it
// together with the number of bytes consumed.
func readUIntBase128(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 5 && i < len(b); i++ {
		c := b[i]
		if i == 0 && c == 0x80 {
			return 0, 0, fmt.Errorf("%w: UIntBase128 with leading zeros", ErrMalformed)
		}
		if v&0xfe000000 != 0 {
			return 0, 0, fmt.Errorf("%w: UIntBase128 overflow", ErrMalformed)
		}
		v = v<<7 | uint32(c&0x7f)
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: UIntBase128 truncated", ErrMalformed)
}
