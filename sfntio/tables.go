package sfntio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"seehuhn.de/go/sfnt/header"
)

// Table is one table of an SFNT font.
type Table struct {
	Tag  string
	Data []byte
}

// Font is the table directory of an SFNT font, with all tables loaded.
type Font struct {
	ScalerType uint32
	Tables     []Table // sorted by tag
}

// ReadTables reads all tables of an SFNT font.
func ReadTables(sfnt []byte) (*Font, error) {
	r := bytes.NewReader(sfnt)
	info, err := header.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	font := &Font{ScalerType: info.ScalerType}
	for tag := range info.Toc {
		data, err := info.ReadTableBytes(r, tag)
		if err != nil {
			return nil, fmt.Errorf("%w: table %q: %v", ErrMalformed, tag, err)
		}
		font.Tables = append(font.Tables, Table{Tag: tag, Data: data})
	}
	slices.SortFunc(font.Tables, func(a, b Table) int {
		return bytes.Compare([]byte(a.Tag), []byte(b.Tag))
	})
	tracer().Debugf("SFNT font has %d tables", len(font.Tables))
	return font, nil
}

// Table returns the data of the table with the given tag, or nil.
func (f *Font) Table(tag string) []byte {
	for _, t := range f.Tables {
		if t.Tag == tag {
			return t.Data
		}
	}
	return nil
}

// Has reports whether the font contains a table with the given tag.
func (f *Font) Has(tag string) bool {
	return f.Table(tag) != nil
}

// TableTags returns the tags of all tables, in directory order.
func (f *Font) TableTags() []string {
	tags := make([]string, len(f.Tables))
	for i, t := range f.Tables {
		tags[i] = t.Tag
	}
	return tags
}

// sfntSize is the size of the font when serialized as SFNT, with each table
// padded to a 4-byte boundary.
func (f *Font) sfntSize() uint32 {
	size := uint32(12 + 16*len(f.Tables))
	for _, t := range f.Tables {
		size += pad4(uint32(len(t.Data)))
	}
	return size
}

// Checksum computes the OpenType table checksum. For table 'head' the
// checkSumAdjustment field is treated as zero.
func Checksum(tag string, data []byte) uint32 {
	var sum uint32
	n := len(data)
	for i := 0; i < n; i += 4 {
		var word [4]byte
		copy(word[:], data[i:min(i+4, n)])
		if tag == "head" && i == 8 {
			continue
		}
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

func pad4(n uint32) uint32 {
	return (n + 3) &^ 3
}
