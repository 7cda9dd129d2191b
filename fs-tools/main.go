/*
Command fs-tools cuts a font into web font subsets and inspects fonts.

	fs-tools subset <font> [flags]     run the subsetting pipeline
	fs-tools info <font>               print font information
	fs-tools ranges <font> [flags]     dry run: show codepoint groups
	fs-tools preview <font> <text>     render text with a font to PNG

Fonts may be given as local paths or http(s) URLs. Exit codes are 0 for
success, 1 for a failed run and 2 for invalid configuration.
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/config"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	initDisplay()
	if err := initTracing(); err != nil {
		fmt.Fprintf(os.Stderr, "fs-tools: error configuring tracing: %v\n", err)
		os.Exit(exitFailed)
	}

	commando.
		SetExecutableName("fs-tools").
		SetVersion("v0.1.0").
		SetDescription("Cut fonts into web font subsets, with CSS unicode-range rules.")

	subsetFlags(commando.
		Register(nil).
		AddArgument("font", "font file path or URL (or use --font-url)", "-")).
		SetAction(runSubsetCommand)

	subsetFlags(commando.
		Register("subset").
		SetDescription("Subset a font and package the subsets with CSS, README, demo page and zip archive.").
		SetShortDescription("create a subset package").
		AddArgument("font", "font file path or URL (or use --font-url)", "-")).
		SetAction(runSubsetCommand)

	commando.
		Register("info").
		SetDescription("Print names, format, metrics and codepoint coverage of a font.").
		SetShortDescription("font information").
		AddArgument("font", "font file path or URL", "").
		AddFlag("ranges,r", "print the codepoint ranges of the font", commando.Bool, nil).
		AddFlag("trace", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runInfoCommand)

	commando.
		Register("ranges").
		SetDescription("Select and split the codepoints of a font without writing any files.").
		SetShortDescription("dry run of selection and split").
		AddArgument("font", "font file path or URL", "").
		AddFlag("subset-strategy,s", "codepoints to keep: all|common|chinese|custom", commando.String, "all").
		AddFlag("custom-range,c", "ranges for strategy custom, e.g. U+0020-007E,U+00E9", commando.String, "").
		AddFlag("split-strategy,S", "grouping: single|byRange|byCount", commando.String, "single").
		AddFlag("split-count,n", "maximum group size for byCount", commando.Int, config.DefaultSplitCount).
		AddFlag("trace", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runRangesCommand)

	commando.
		Register("preview").
		SetDescription("Render a line of text with a font to a PNG image. Characters missing from the font show as .notdef.").
		SetShortDescription("render text to image").
		AddArgument("font", "font file path or URL", "").
		AddArgument("text...", "text to render", "").
		AddFlag("output,o", "output PNG file", commando.String, "fs-tools-preview.png").
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 48).
		AddFlag("width,W", "image width in pixels", commando.Int, 800).
		AddFlag("height,H", "image height in pixels", commando.Int, 120).
		AddFlag("show-bboxes,B", "draw red bounding-box outlines per rendered glyph", commando.Bool, nil).
		AddFlag("trace", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runPreviewCommand)

	commando.Parse(nil)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func initTracing() error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":  "go",
		"trace.fontsubset": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// setTraceLevel applies the --trace flag. It returns false for unknown levels.
func setTraceLevel(flag commando.FlagValue) bool {
	level, err := flag.GetString()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "error", "":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		return false
	}
	return true
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch fontsubset.KindOf(err) {
	case fontsubset.KindConfig, fontsubset.KindRangeExpression:
		return exitConfig
	}
	if err != nil {
		return exitFailed
	}
	return exitOK
}

// fail reports err and exits. At trace level Debug the complete chain of
// wrapped errors is written to stderr.
func fail(err error) {
	pterm.Error.Println(err.Error())
	if tracer().GetTraceLevel() == tracing.LevelDebug {
		depth := 0
		for e := err; e != nil; e = errors.Unwrap(e) {
			fmt.Fprintf(os.Stderr, "%s[%T] %v\n", strings.Repeat("  ", depth), e, e)
			depth++
		}
	}
	os.Exit(exitCode(err))
}

// fatalf reports a usage error and exits with the configuration exit code.
func fatalf(format string, args ...interface{}) {
	fail(fontsubset.Errorf(fontsubset.KindConfig, "", format, args...))
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}
