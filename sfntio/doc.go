/*
Package sfntio reads and writes the container formats a web font may come in.

An SFNT font (TrueType or CFF flavoured OpenType) is a table directory followed
by table data. For web delivery the same tables are frequently wrapped into a
WOFF 1.0 container (zlib-compressed tables) or a WOFF 2.0 container (one
Brotli-compressed stream). Package sfntio sniffs these containers, unwraps
WOFF input into plain SFNT bytes, and wraps SFNT bytes into either of the
WOFF flavours.

WOFF 2.0 output uses the null transform for every table, including 'glyf' and
'loca'. This is allowed by the W3C recommendation and keeps the encoder simple,
at the cost of a few percent of compression.

WOFF 2.0 input is accepted only if no table carries a transform, which is the
case for fonts written by this package. Font collections (*.ttc) are not
supported.

# Links

WOFF 1.0: https://www.w3.org/TR/WOFF/

WOFF 2.0: https://www.w3.org/TR/WOFF2/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package sfntio

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// ErrUnsupportedFormat is returned for containers this package cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported font container format")

// ErrMalformed is returned for containers with inconsistent structure.
var ErrMalformed = errors.New("malformed font container")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}
