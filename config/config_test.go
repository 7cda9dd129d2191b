package config

import (
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	opts, err := New(Flags{FontSource: "https://example.com/a.ttf", MaxRedirects: -1})
	require.NoError(t, err)
	assert.Equal(t, codepoint.All, opts.SubsetStrategy)
	assert.Equal(t, codepoint.Single, opts.SplitStrategy)
	assert.Equal(t, 1000, opts.SplitCount)
	assert.Equal(t, sfntio.WOFF2, opts.OutputFormat)
	assert.Equal(t, "400", opts.FontWeight)
	assert.Equal(t, "normal", opts.FontStyle)
	assert.Equal(t, "output", opts.OutputDir)
	assert.Equal(t, 60*time.Second, opts.Timeout)
	assert.Equal(t, 10, opts.MaxRedirects)
}

func TestFlags(t *testing.T) {
	opts, err := New(Flags{
		FontSource:     "font.otf",
		SubsetStrategy: "Custom",
		CustomRange:    "U+0041-005A",
		SplitStrategy:  "byCount",
		SplitCount:     5,
		OutputFormat:   "woff",
		FontWeight:     "700",
		FontStyle:      "Italic",
		OutputDir:      "out",
		FontFamily:     "My Font",
		Timeout:        time.Second,
		MaxRedirects:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, codepoint.Custom, opts.SubsetStrategy)
	assert.Equal(t, codepoint.ByCount, opts.SplitStrategy)
	assert.Equal(t, 5, opts.SplitCount)
	assert.Equal(t, sfntio.WOFF, opts.OutputFormat)
	assert.Equal(t, "italic", opts.FontStyle)
	assert.Equal(t, 0, opts.MaxRedirects)
	assert.Contains(t, opts.String(), "Custom Range=U+0041-005A")
}

func TestInvalidOptions(t *testing.T) {
	base := Flags{FontSource: "font.ttf", MaxRedirects: -1}
	for name, tweak := range map[string]func(*Flags){
		"no source":       func(f *Flags) { f.FontSource = "  " },
		"strategy":        func(f *Flags) { f.SubsetStrategy = "latin" },
		"split strategy":  func(f *Flags) { f.SplitStrategy = "byBlock" },
		"split count":     func(f *Flags) { f.SplitCount = -3 },
		"format":          func(f *Flags) { f.OutputFormat = "ttc" },
		"weight":          func(f *Flags) { f.FontWeight = "bold" },
		"weight range":    func(f *Flags) { f.FontWeight = "950" },
		"style":           func(f *Flags) { f.FontStyle = "oblique" },
		"custom no range": func(f *Flags) { f.SubsetStrategy = "custom" },
		"family":          func(f *Flags) { f.FontFamily = "x'; }" },
		"timeout":         func(f *Flags) { f.Timeout = -time.Second },
	} {
		flags := base
		tweak(&flags)
		_, err := New(flags)
		require.Error(t, err, name)
		assert.Equal(t, fontsubset.KindConfig, fontsubset.KindOf(err), name)
	}
}

func TestMalformedCustomRange(t *testing.T) {
	_, err := New(Flags{FontSource: "font.ttf", SubsetStrategy: "custom", CustomRange: "U+00G1", MaxRedirects: -1})
	require.Error(t, err)
	assert.Equal(t, fontsubset.KindRangeExpression, fontsubset.KindOf(err))
	assert.True(t, errors.Is(err, codepoint.ErrRangeExpression))
	var rerr *codepoint.RangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "U+00G1", rerr.Token)
}

func TestValidateZeroValue(t *testing.T) {
	opts := Defaults()
	assert.Error(t, opts.Validate(), "expected missing font source to fail")
	opts.FontSource = "x.ttf"
	assert.NoError(t, opts.Validate())
	opts.SplitCount = 0
	assert.Equal(t, fontsubset.KindConfig, fontsubset.KindOf(opts.Validate()))
}
