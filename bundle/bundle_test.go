package bundle

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type BundleTestEnviron struct {
	suite.Suite
	pkg *Package
}

// listen for 'go test' command --> run test methods
func TestBundleFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	suite.Run(t, new(BundleTestEnviron))
}

// run before each test method
func (env *BundleTestEnviron) SetupTest() {
	env.pkg = &Package{
		Name:   "Go-Regular",
		Family: "Go",
		Weight: "700",
		Style:  "italic",
		Format: sfntio.WOFF2,
		Settings: [][2]string{
			{"Font Source", "https://example.com/Go-Regular.ttf"},
			{"Subset Strategy", "common"},
		},
		FontInfo: [][2]string{{"Full Name", "Go Regular"}},
		Files: []FontFile{
			{Name: FileName("Go-Regular", 1, sfntio.WOFF2), Codepoints: codepoint.Set{0x41, 0x42, 0x43, 0x46}, Size: 1200},
			{Name: FileName("Go-Regular", 2, sfntio.WOFF2), Codepoints: codepoint.Set{0x4E00, 0x4E01}, Size: 800},
		},
		Created: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- Tests -----------------------------------------------------------------

func (env *BundleTestEnviron) TestNames() {
	env.Equal("Go-Regular-subset-1.woff2", env.pkg.Files[0].Name)
	env.Equal("fonts/Go-Regular-subset-1.woff2", env.pkg.Files[0].Path())
	env.Equal("font-subset-3.ttf", FileName("font", 3, sfntio.TTF))
	env.Equal("Go-Regular-subset-package.zip", ArchiveName("Go-Regular"))
	env.Equal(6, env.pkg.TotalCharacters())
}

func (env *BundleTestEnviron) TestCSS() {
	css := CSS(env.pkg)
	env.Equal(2, strings.Count(css, "@font-face {"), "expected one rule per file")
	env.Contains(css, `@font-face {
    font-family: 'Go';
    src: url('../fonts/Go-Regular-subset-1.woff2') format('woff2');
    font-weight: 700;
    font-style: italic;
    unicode-range: U+0041-0043, U+0046;
    font-display: swap;
}

@font-face {`)
	env.Contains(css, "unicode-range: U+4E00-4E01;")
	//
	env.pkg.Format = sfntio.TTF
	env.pkg.Family = "It's"
	css = CSS(env.pkg)
	env.Contains(css, "format('truetype')")
	env.Contains(css, `font-family: 'It\'s';`)
}

func (env *BundleTestEnviron) TestREADME() {
	text, err := README(env.pkg)
	env.Require().NoError(err)
	env.True(strings.HasPrefix(text, "Font Subset Package\n\nGenerated by Font Subset Tool\n"))
	env.Contains(text, "Configuration:\n- Font Source: https://example.com/Go-Regular.ttf\n- Subset Strategy: common\n")
	env.Contains(text, "Font:\n- Full Name: Go Regular\n")
	env.Contains(text, "- fonts/: 2 subset font files\n")
	env.Contains(text, "- Go-Regular-subset-1.woff2: 4 characters (U+0041-0043, U+0046)\n")
	env.Contains(text, "- Go-Regular-subset-2.woff2: 2 characters (U+4E00-4E01)\n")
	env.Contains(text, "Total Characters: 6\n")
	env.Contains(text, "3. Use font-family: 'Go'\n")
}

func (env *BundleTestEnviron) TestDemoHTML() {
	page, err := DemoHTML(env.pkg)
	env.Require().NoError(err)
	env.Contains(page, `href="styles/font.css"`)
	env.Contains(page, "<h1>Go</h1>")
	env.Contains(page, sampleLatin)
	env.Contains(page, sampleChinese)
	env.Contains(page, "2024-05-01 12:00:00")
	env.Contains(page, "<td>Go-Regular-subset-2.woff2</td>")
	//
	env.pkg.Family = "<script>"
	env.pkg.Files = []FontFile{{Name: "x.woff2", Codepoints: codepoint.Set{0x3B1, 0x3B2}}}
	page, err = DemoHTML(env.pkg)
	env.Require().NoError(err)
	env.NotContains(page, "<h1><script></h1>", "expected family name to be escaped")
	env.NotContains(page, sampleLatin)
	env.Contains(page, "αβ", "expected own characters as sample")
}

func (env *BundleTestEnviron) TestDirWrite() {
	root := env.T().TempDir()
	dir := NewDir(root)
	ctx := context.Background()
	env.Require().NoError(dir.WriteFile(ctx, "fonts/a.woff2", []byte("font A")))
	env.Require().NoError(dir.WriteFile(ctx, StyleSheet, []byte("css")))
	env.Require().NoError(dir.WriteFile(ctx, StyleSheet, []byte("css v2")))
	data, err := os.ReadFile(filepath.Join(root, "styles", "font.css"))
	env.Require().NoError(err)
	env.Equal("css v2", string(data))
	//
	matches, _ := filepath.Glob(filepath.Join(root, "*", ".tmp-*"))
	env.Empty(matches, "expected no temporary files to be left over")
	//
	for _, bad := range []string{"../escape.txt", "/etc/passwd", "", "."} {
		err := dir.WriteFile(ctx, bad, nil)
		env.True(errors.Is(err, ErrPathInvalid), "expected %q to be rejected", bad)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	env.Error(dir.WriteFile(cancelled, "late.txt", nil))
}

func (env *BundleTestEnviron) TestArchive() {
	root := env.T().TempDir()
	dir := NewDir(root)
	ctx := context.Background()
	files := map[string]string{
		"fonts/a.woff2": "font A",
		"fonts/b.woff2": "font B",
		StyleSheet:      "css",
		ReadmeFile:      "readme",
		DemoFile:        "<html>",
	}
	var paths []string
	for p, content := range files {
		env.Require().NoError(dir.WriteFile(ctx, p, []byte(content)))
		paths = append(paths, p)
	}
	env.Require().NoError(dir.Archive(ctx, "x-subset-package.zip", paths))
	//
	zr, err := zip.OpenReader(filepath.Join(root, "x-subset-package.zip"))
	env.Require().NoError(err)
	defer zr.Close()
	env.Len(zr.File, len(files))
	for _, zf := range zr.File {
		want, ok := files[zf.Name]
		env.Require().True(ok, "unexpected zip entry %s", zf.Name)
		r, err := zf.Open()
		env.Require().NoError(err)
		got, err := io.ReadAll(r)
		r.Close()
		env.Require().NoError(err)
		env.Equal(want, string(got))
	}
	//
	err = dir.Archive(ctx, "broken.zip", []string{"fonts/missing.woff2"})
	env.Error(err)
	_, err = os.Stat(filepath.Join(root, "broken.zip"))
	env.True(os.IsNotExist(err), "expected no archive after failure")
}
