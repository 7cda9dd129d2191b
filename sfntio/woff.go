package sfntio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"seehuhn.de/go/sfnt/header"
)

// WOFF 1.0 layout, see https://www.w3.org/TR/WOFF/#WOFFHeader.
const (
	woffHeaderSize   = 44
	woffEntrySize    = 20
	maxTableSize     = 64 << 20 // decompressed size limit per table
	woffMajorVersion = 1
)

type woffHeader struct {
	Signature      uint32
	Flavor         uint32
	Length         uint32
	NumTables      uint16
	Reserved       uint16
	TotalSfntSize  uint32
	MajorVersion   uint16
	MinorVersion   uint16
	MetaOffset     uint32
	MetaLength     uint32
	MetaOrigLength uint32
	PrivOffset     uint32
	PrivLength     uint32
}

type woffEntry struct {
	Tag          [4]byte
	Offset       uint32
	CompLength   uint32
	OrigLength   uint32
	OrigChecksum uint32
}

// DecodeWOFF unwraps a WOFF 1.0 font into plain SFNT bytes.
// Extended metadata and private data blocks are dropped.
func DecodeWOFF(data []byte) ([]byte, error) {
	if len(data) < woffHeaderSize {
		return nil, fmt.Errorf("%w: WOFF header truncated", ErrMalformed)
	}
	var h woffHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if h.Signature != SignatureWOFF {
		return nil, fmt.Errorf("%w: not a WOFF font", ErrUnsupportedFormat)
	}
	dirEnd := woffHeaderSize + woffEntrySize*int(h.NumTables)
	if h.NumTables == 0 || dirEnd > len(data) {
		return nil, fmt.Errorf("%w: WOFF table directory", ErrMalformed)
	}
	tables := make(map[string][]byte, h.NumTables)
	for i := range int(h.NumTables) {
		var e woffEntry
		rec := data[woffHeaderSize+i*woffEntrySize:]
		if err := binary.Read(bytes.NewReader(rec), binary.BigEndian, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		tag := string(e.Tag[:])
		end := uint64(e.Offset) + uint64(e.CompLength)
		if end > uint64(len(data)) || e.CompLength > e.OrigLength || e.OrigLength > maxTableSize {
			return nil, fmt.Errorf("%w: WOFF table %q out of bounds", ErrMalformed, tag)
		}
		raw := data[e.Offset:end]
		if e.CompLength == e.OrigLength {
			tables[tag] = bytes.Clone(raw) // header.Write patches 'head' in place
			continue
		}
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: WOFF table %q: %v", ErrMalformed, tag, err)
		}
		table, err := io.ReadAll(io.LimitReader(zr, int64(e.OrigLength)+1))
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: WOFF table %q: %v", ErrMalformed, tag, err)
		}
		if len(table) != int(e.OrigLength) {
			return nil, fmt.Errorf("%w: WOFF table %q: size %d, expected %d",
				ErrMalformed, tag, len(table), e.OrigLength)
		}
		tables[tag] = table
	}
	tracer().Debugf("decoded WOFF font with %d tables", len(tables))
	buf := &bytes.Buffer{}
	if _, err := header.Write(buf, h.Flavor, tables); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return buf.Bytes(), nil
}

// EncodeWOFF wraps SFNT bytes into a WOFF 1.0 container. Tables are
// zlib-compressed, unless compression does not reduce their size.
func EncodeWOFF(sfnt []byte) ([]byte, error) {
	font, err := ReadTables(sfnt)
	if err != nil {
		return nil, err
	}
	n := len(font.Tables)
	entries := make([]woffEntry, n)
	blocks := make([][]byte, n)
	offset := uint32(woffHeaderSize + woffEntrySize*n)
	for i, t := range font.Tables {
		block, err := deflate(t.Data)
		if err != nil {
			return nil, err
		}
		if len(block) >= len(t.Data) {
			block = t.Data
		}
		copy(entries[i].Tag[:], t.Tag)
		entries[i].Offset = offset
		entries[i].CompLength = uint32(len(block))
		entries[i].OrigLength = uint32(len(t.Data))
		entries[i].OrigChecksum = Checksum(t.Tag, t.Data)
		blocks[i] = block
		offset += pad4(uint32(len(block)))
	}
	h := woffHeader{
		Signature:     SignatureWOFF,
		Flavor:        font.ScalerType,
		Length:        offset,
		NumTables:     uint16(n),
		TotalSfntSize: font.sfntSize(),
		MajorVersion:  woffMajorVersion,
	}
	buf := bytes.NewBuffer(make([]byte, 0, offset))
	_ = binary.Write(buf, binary.BigEndian, h)
	_ = binary.Write(buf, binary.BigEndian, entries)
	var zeros [3]byte
	for _, block := range blocks {
		buf.Write(block)
		buf.Write(zeros[:pad4(uint32(len(block)))-uint32(len(block))])
	}
	tracer().Debugf("encoded WOFF font: %d -> %d bytes", len(sfnt), buf.Len())
	return buf.Bytes(), nil
}

func deflate(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
