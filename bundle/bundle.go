/*
Package bundle renders the web-facing parts of a subset package and writes
packages to disk.

A package consists of the subset font files, a style sheet with one
@font-face rule per font file, a README, a demo page and a zip archive with
all of these. Rendering is pure; Dir does the file system work.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bundle

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// Paths of package parts, relative to the package root.
const (
	FontsDir   = "fonts"
	StylesDir  = "styles"
	StyleSheet = "styles/font.css"
	ReadmeFile = "README.txt"
	DemoFile   = "index.html"
)

// FontFile is a subset font file of a package.
type FontFile struct {
	Name       string        // file name within FontsDir
	Codepoints codepoint.Set // codepoints covered
	Size       int           // in bytes
}

// Path returns the path of f relative to the package root.
func (f FontFile) Path() string {
	return FontsDir + "/" + f.Name
}

// Ranges returns the unicode-range descriptor of f.
func (f FontFile) Ranges() string {
	return codepoint.FormatRanges(f.Codepoints)
}

// FileName returns the name of the k-th subset font file (k starting at 1).
func FileName(name string, k int, format sfntio.Format) string {
	return fmt.Sprintf("%s-subset-%d.%s", name, k, format.Extension())
}

// ArchiveName returns the name of the zip archive of a package.
func ArchiveName(name string) string {
	return name + "-subset-package.zip"
}

// Package describes a subset package.
type Package struct {
	Name     string        // file name stem, see fontsubset.BaseName
	Family   string        // CSS font-family
	Weight   string        // CSS font-weight
	Style    string        // CSS font-style
	Format   sfntio.Format // format of the font files
	Settings [][2]string   // configuration as label/value pairs, for the README
	FontInfo [][2]string   // description of the source font, for the README
	Files    []FontFile
	Created  time.Time
}

// TotalCharacters returns the number of codepoints covered by all files.
func (p *Package) TotalCharacters() int {
	n := 0
	for _, f := range p.Files {
		n += f.Codepoints.Len()
	}
	return n
}

// CSS renders the style sheet of a package, one @font-face rule per font
// file. The style sheet lives in StylesDir, font URLs are relative to it.
func CSS(p *Package) string {
	rules := make([]string, len(p.Files))
	for i, f := range p.Files {
		rules[i] = fmt.Sprintf(`@font-face {
    font-family: '%s';
    src: url('../%s') format('%s');
    font-weight: %s;
    font-style: %s;
    unicode-range: %s;
    font-display: swap;
}`, cssString(p.Family), f.Path(), p.Format.CSSFormat(), p.Weight, p.Style, f.Ranges())
	}
	return strings.Join(rules, "\n\n") + "\n"
}

// cssString escapes s for use in a single-quoted CSS string.
func cssString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\A `).Replace(s)
}

var readme = template.Must(template.New("readme").Parse(`Font Subset Package

Generated by Font Subset Tool

Configuration:
{{- range .Settings}}
- {{index . 0}}: {{index . 1}}
{{- end}}
{{- if .FontInfo}}

Font:
{{- range .FontInfo}}
- {{index . 0}}: {{index . 1}}
{{- end}}
{{- end}}

Files:
- fonts/: {{len .Files}} subset font files
- styles/font.css: CSS style definitions
- index.html: demo page

File Details:
{{- range .Files}}
- {{.Name}}: {{.Codepoints.Len}} characters ({{.Ranges}})
{{- end}}

Total Characters: {{.TotalCharacters}}

Usage:
1. Copy the fonts and styles folders to your project
2. Include styles/font.css in your HTML
3. Use font-family: '{{.Family}}'
`))

// README renders the human readable summary of a package.
func README(p *Package) (string, error) {
	var b strings.Builder
	if err := readme.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
