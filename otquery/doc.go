/*
Package otquery reads descriptive information from the raw tables of an SFNT
font: names, header fields, metrics and the layout tables present.

All functions operate on table bytes as loaded by sfntio.ReadTables and never
fail: missing or truncated tables result in zero values.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}
