package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/config"
	"github.com/npillmayer/fontsubset/fetch"
	"github.com/npillmayer/fontsubset/otquery"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/fontsubset/subset"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// loadFont fetches and parses the font named by the "font" argument.
func loadFont(args map[string]commando.ArgValue) *fontsubset.ScalableFont {
	source := strings.TrimSpace(args["font"].Value)
	if source == "" {
		fatalf("font path or URL is required")
	}
	fetcher := fetch.New(config.DefaultTimeout, config.DefaultMaxRedirects)
	data, err := fetcher.Fetch(context.Background(), source)
	if err != nil {
		fail(err)
	}
	f, err := fontsubset.ParseFont(data)
	if err != nil {
		fail(err)
	}
	f.Filepath = source
	return f
}

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	if !setTraceLevel(flags["trace"]) {
		fatalf("invalid --trace flag, expected Debug|Info|Error")
	}
	f := loadFont(args)
	otf, err := sfntio.ReadTables(f.Data)
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindParse, "info", err))
	}
	info := otquery.Describe(otf)
	cps := subset.Codepoints(f)

	pterm.Printf("Source:     %s\n", f.Filepath)
	pterm.Printf("Container:  %s\n", f.Format.Label())
	pterm.Printf("Type:       %s\n", info.Type)
	pterm.Printf("Family:     %s\n", info.Family)
	pterm.Printf("Subfamily:  %s\n", info.Subfamily)
	if info.FullName != "" {
		pterm.Printf("Full name:  %s\n", info.FullName)
	}
	if info.Version != "" {
		pterm.Printf("Version:    %s\n", info.Version)
	}
	pterm.Printf("Glyphs:     %d\n", info.NumGlyphs)
	pterm.Printf("Units/em:   %d\n", info.UnitsPerEm)
	pterm.Printf("BBox:       (%d,%d)-(%d,%d)\n", info.BBox.MinX, info.BBox.MinY, info.BBox.MaxX, info.BBox.MaxY)
	pterm.Printf("Metrics:    ascent=%d descent=%d line-gap=%d\n",
		info.Metrics.Ascent, info.Metrics.Descent, info.Metrics.LineGap)
	pterm.Printf("Tables (%d): %s\n", len(info.Tables), strings.Join(info.Tables, " "))
	if len(info.LayoutTables) > 0 {
		pterm.Printf("Layout:     %s (dropped when subsetting)\n", strings.Join(info.LayoutTables, ","))
	}
	pterm.Printf("Characters: %d\n", cps.Len())
	pterm.Println()

	data := [][]string{{"Block", "Range", "Characters"}}
	for _, b := range append(append([]codepoint.Block{}, codepoint.CommonBlocks...), codepoint.ChineseBlocks...) {
		n := 0
		for _, c := range cps {
			if b.Contains(c) {
				n++
			}
		}
		data = append(data, []string{b.Name, b.Range.String(), fmt.Sprintf("%d / %d", n, b.Len())})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if mustFlagBool(flags["ranges"], "ranges") {
		pterm.Println()
		pterm.Println(codepoint.FormatRanges(cps))
	}
}

// runRangesCommand selects and splits the codepoints of a font like the
// subset command does, and prints the groups without creating any files.
func runRangesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	if !setTraceLevel(flags["trace"]) {
		fatalf("invalid --trace flag, expected Debug|Info|Error")
	}
	strategy, err := codepoint.ParseStrategy(mustFlagString(flags["subset-strategy"], "subset-strategy"))
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindConfig, "subset-strategy", err))
	}
	split, err := codepoint.ParseSplitStrategy(mustFlagString(flags["split-strategy"], "split-strategy"))
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindConfig, "split-strategy", err))
	}
	f := loadFont(args)
	cps := subset.Codepoints(f)
	selected, err := codepoint.Select(cps, strategy, mustFlagString(flags["custom-range"], "custom-range"))
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindRangeExpression, "custom-range", err))
	}
	if selected.Len() == 0 {
		fail(fontsubset.Errorf(fontsubset.KindEmptySelection, "select",
			"no characters found for strategy %s", strategy))
	}
	groups, err := codepoint.Split(selected, split, mustFlagInt(flags["split-count"], "split-count"))
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindConfig, "split", err))
	}
	pterm.Info.Printf("%d of %d characters selected, %d groups\n", selected.Len(), cps.Len(), len(groups))
	data := [][]string{{"Group", "Characters", "unicode-range"}}
	for i, g := range groups {
		data = append(data, []string{strconv.Itoa(i + 1), strconv.Itoa(g.Len()), abbreviate(codepoint.FormatRanges(g), 64)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
