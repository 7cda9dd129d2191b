package sfntio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestSniff(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	cases := []struct {
		data   []byte
		format Format
	}{
		{goregular.TTF, TTF},
		{[]byte("OTTO\x00\x01"), OTF},
		{[]byte("true\x00\x00"), TTF},
		{[]byte("wOFF\x00\x01\x00\x00"), WOFF},
		{[]byte("wOF2\x00\x01\x00\x00"), WOFF2},
		{[]byte("ttcf\x00\x01\x00\x00"), Collection},
		{[]byte("<html>"), Unknown},
		{[]byte("wO"), Unknown},
	}
	for i, c := range cases {
		if f := Sniff(c.data); f != c.format {
			t.Errorf("case %d: expected format %s, got %s", i, c.format, f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"ttf", "otf", "woff", "WOFF2 "} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		require.True(t, f.IsOutput())
		require.NotEmpty(t, f.CSSFormat())
	}
	_, err := ParseFormat("eot")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Equal(t, "truetype", TTF.CSSFormat())
	require.Equal(t, "opentype", OTF.CSSFormat())
	require.Equal(t, "woff2", WOFF2.Extension())
}

func TestToSFNTRejectsUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	_, f, err := ToSFNT([]byte("ttcf\x00\x01\x00\x00"))
	if !errors.Is(err, ErrUnsupportedFormat) || f != Collection {
		t.Fatalf("expected collection to be rejected, got %v (%s)", err, f)
	}
	_, _, err = ToSFNT([]byte("not a font at all"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unknown signature to be rejected, got %v", err)
	}
	sfnt, f, err := ToSFNT(goregular.TTF)
	require.NoError(t, err)
	require.Equal(t, TTF, f)
	require.Equal(t, len(goregular.TTF), len(sfnt))
}

func TestReadTables(t *testing.T) {
	font, err := ReadTables(goregular.TTF)
	require.NoError(t, err)
	for _, tag := range []string{"cmap", "glyf", "head", "loca", "maxp", "name"} {
		require.True(t, font.Has(tag), "expected table %q in Go Regular", tag)
	}
	tags := font.TableTags()
	for i := 1; i < len(tags); i++ {
		require.Less(t, tags[i-1], tags[i], "table tags not sorted")
	}
	require.Nil(t, font.Table("CFF "))
}

func TestChecksumIgnoresHeadAdjustment(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0, 0, 0, 2, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 3, 4}
	require.Equal(t, uint32(0x04000005), Checksum("xxxx", data)) // wraps around
	require.Equal(t, uint32(0x04000006), Checksum("head", data))
}

func TestWOFFRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	woff, err := EncodeWOFF(goregular.TTF)
	require.NoError(t, err)
	require.Equal(t, WOFF, Sniff(woff))
	require.Less(t, len(woff), len(goregular.TTF), "expected WOFF to compress")
	require.Zero(t, len(woff)%4)
	//
	sfnt, f, err := ToSFNT(woff)
	require.NoError(t, err)
	require.Equal(t, WOFF, f)
	requireSameTables(t, goregular.TTF, sfnt)
}

func TestWOFF2RoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	//
	woff2, err := EncodeWOFF2(goregular.TTF)
	require.NoError(t, err)
	require.Equal(t, WOFF2, Sniff(woff2))
	require.Zero(t, len(woff2)%4)
	require.Equal(t, uint32(len(woff2)), u32(woff2[8:]), "header length field")
	require.Less(t, len(woff2), len(goregular.TTF), "expected WOFF2 to compress")
	//
	sfnt, f, err := ToSFNT(woff2)
	require.NoError(t, err)
	require.Equal(t, WOFF2, f)
	requireSameTables(t, goregular.TTF, sfnt)
}

func TestWOFF2RejectsTransformedGlyf(t *testing.T) {
	woff2, err := EncodeWOFF2(goregular.TTF)
	require.NoError(t, err)
	// flip the first 'glyf' directory entry to transform version 0
	pos := woff2HeaderSize
	for range int(u16(woff2[12:])) {
		flags := woff2[pos]
		if int(flags&woff2ArbitraryTag) == 10 {
			woff2[pos] = flags &^ (3 << 6)
			break
		}
		pos++
		if int(flags&woff2ArbitraryTag) == woff2ArbitraryTag {
			pos += 4
		}
		_, n, err := readUIntBase128(woff2[pos:])
		require.NoError(t, err)
		pos += n
	}
	_, err = DecodeWOFF2(woff2)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUIntBase128(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 16383, 16384, 63 << 20, 0xffffffff} {
		b := appendUIntBase128(nil, v)
		w, n, err := readUIntBase128(b)
		require.NoError(t, err)
		require.Equal(t, len(b), n)
		require.Equal(t, v, w)
	}
	require.Len(t, appendUIntBase128(nil, 127), 1)
	require.Len(t, appendUIntBase128(nil, 128), 2)
	_, _, err := readUIntBase128([]byte{0x80, 0x01})
	require.ErrorIs(t, err, ErrMalformed)
	_, _, err = readUIntBase128([]byte{0x81, 0x82})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeTruncated(t *testing.T) {
	woff, err := EncodeWOFF(goregular.TTF)
	require.NoError(t, err)
	_, err = DecodeWOFF(woff[:100])
	require.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeWOFF2([]byte("wOF2"))
	require.ErrorIs(t, err, ErrMalformed)
}

// requireSameTables compares two SFNT fonts table by table. The 'head'
// checksum adjustment depends on the table layout and is not compared.
func requireSameTables(t *testing.T, want, got []byte) {
	t.Helper()
	f1, err := ReadTables(want)
	require.NoError(t, err)
	f2, err := ReadTables(got)
	require.NoError(t, err)
	require.Equal(t, f1.TableTags(), f2.TableTags())
	for _, tab := range f1.Tables {
		d1, d2 := tab.Data, f2.Table(tab.Tag)
		if tab.Tag == "head" {
			require.Equal(t, len(d1), len(d2))
			require.True(t, bytes.Equal(d1[:8], d2[:8]) && bytes.Equal(d1[12:], d2[12:]),
				"table 'head' differs")
			continue
		}
		require.True(t, bytes.Equal(d1, d2), "table %q differs", tab.Tag)
	}
}
