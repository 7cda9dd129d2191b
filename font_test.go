package fontsubset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
)

// --- Test Suite Preparation ------------------------------------------------

type FontTestEnviron struct {
	suite.Suite
	font *ScalableFont
}

// listen for 'go test' command --> run test methods
func TestFontFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset")
	defer teardown()
	suite.Run(t, new(FontTestEnviron))
}

// run once, before test suite methods
func (env *FontTestEnviron) SetupSuite() {
	var err error
	env.font, err = ParseFont(goregular.TTF)
	env.Require().NoError(err, "expected Go Regular to parse")
}

// --- Tests -----------------------------------------------------------------

func (env *FontTestEnviron) TestNames() {
	env.Equal("Go Regular", env.font.Fontname)
	env.Equal("Go", env.font.Family())
	env.Equal("Regular", env.font.Subfamily())
	env.Equal(sfntio.TTF, env.font.Format)
	env.Greater(env.font.NumGlyphs(), 100)
}

func (env *FontTestEnviron) TestParseWOFF() {
	woff, err := sfntio.EncodeWOFF(goregular.TTF)
	env.Require().NoError(err)
	f, err := ParseFont(woff)
	env.Require().NoError(err)
	env.Equal(sfntio.WOFF, f.Format)
	env.Equal("Go Regular", f.Fontname)
}

func (env *FontTestEnviron) TestParseGarbage() {
	_, err := ParseFont([]byte("<html><body>404</body></html>"))
	env.Require().Error(err)
	env.Equal(KindParse, KindOf(err))
	env.True(errors.Is(err, sfntio.ErrUnsupportedFormat))
}

func (env *FontTestEnviron) TestLoadFont() {
	path := filepath.Join(env.T().TempDir(), "Go-Regular.ttf")
	env.Require().NoError(os.WriteFile(path, goregular.TTF, 0o644))
	f, err := LoadFont(path)
	env.Require().NoError(err)
	env.Equal("Go-Regular", f.BaseName())
	//
	_, err = LoadFont(filepath.Join(env.T().TempDir(), "missing.ttf"))
	env.Equal(KindIO, KindOf(err))
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"https://example.com/fonts/NotoSansSC-Regular.otf?v=2": "NotoSansSC-Regular",
		"/tmp/fonts/My Font.woff2":                             "My_Font",
		"font.ttf":                                             "font",
		"":                                                     "font",
		"https://example.com/download/":                        "download",
		"./.hidden.ttf":                                        "hidden",
	}
	for source, want := range cases {
		if got := BaseName(source); got != want {
			t.Errorf("BaseName(%q) = %q, expected %q", source, got, want)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapError(KindDownload, "download", base)
	if KindOf(err) != KindDownload || !errors.Is(err, base) {
		t.Fatalf("expected download error wrapping base, got %v", err)
	}
	if WrapError(KindDownload, "again", err) != err {
		t.Errorf("expected error of same kind not to be wrapped twice")
	}
	if WrapError(KindIO, "x", nil) != nil {
		t.Errorf("expected nil error to stay nil")
	}
	if KindOf(base) != KindUnknown {
		t.Errorf("expected foreign error to be of unknown kind")
	}
	err = Errorf(KindEmptySelection, "select", "no characters found for strategy %q", "custom")
	if err.Error() != `EmptySelectionError: select: no characters found for strategy "custom"` {
		t.Errorf("unexpected message: %s", err)
	}
}
