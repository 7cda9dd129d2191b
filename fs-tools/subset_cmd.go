package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/npillmayer/fontsubset/config"
	"github.com/npillmayer/fontsubset/pipeline"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// subsetFlags adds the configuration flags of a subsetting run.
func subsetFlags(cmd *commando.Command) *commando.Command {
	return cmd.
		AddFlag("font-url,u", "font file path or URL", commando.String, "").
		AddFlag("subset-strategy,s", "codepoints to keep: all|common|chinese|custom", commando.String, "all").
		AddFlag("custom-range,c", "ranges for strategy custom, e.g. U+0020-007E,U+00E9", commando.String, "").
		AddFlag("split-strategy,S", "grouping: single|byRange|byCount", commando.String, "single").
		AddFlag("split-count,n", "maximum group size for byCount", commando.Int, config.DefaultSplitCount).
		AddFlag("output-format,f", "font format: ttf|otf|woff|woff2", commando.String, "woff2").
		AddFlag("font-weight,w", "CSS font-weight, 100–900", commando.String, config.DefaultFontWeight).
		AddFlag("font-style", "CSS font-style: normal|italic", commando.String, config.DefaultFontStyle).
		AddFlag("font-family", "CSS font-family (default: family name of the font)", commando.String, "").
		AddFlag("output-dir,o", "output directory", commando.String, config.DefaultOutputDir).
		AddFlag("timeout", "download timeout in seconds", commando.Int, int(config.DefaultTimeout/time.Second)).
		AddFlag("max-redirects", "maximum number of redirects to follow", commando.Int, config.DefaultMaxRedirects).
		AddFlag("trace", "trace level [Debug|Info|Error]", commando.String, "Error")
}

func runSubsetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	if !setTraceLevel(flags["trace"]) {
		fatalf("invalid --trace flag, expected Debug|Info|Error")
	}
	source := mustFlagString(flags["font-url"], "font-url")
	if arg, ok := args["font"]; ok && arg.Value != "-" && arg.Value != "" {
		if source != "" && source != arg.Value {
			fatalf("font given both as argument and as --font-url")
		}
		source = arg.Value
	}
	timeout := mustFlagInt(flags["timeout"], "timeout")
	if timeout <= 0 {
		fatalf("--timeout must be a positive number of seconds")
	}
	count := mustFlagInt(flags["split-count"], "split-count")
	if count <= 0 {
		fatalf("--split-count must be a positive integer")
	}
	opts, err := config.New(config.Flags{
		FontSource:     source,
		SubsetStrategy: mustFlagString(flags["subset-strategy"], "subset-strategy"),
		CustomRange:    mustFlagString(flags["custom-range"], "custom-range"),
		SplitStrategy:  mustFlagString(flags["split-strategy"], "split-strategy"),
		SplitCount:     count,
		OutputFormat:   mustFlagString(flags["output-format"], "output-format"),
		FontWeight:     mustFlagString(flags["font-weight"], "font-weight"),
		FontStyle:      mustFlagString(flags["font-style"], "font-style"),
		OutputDir:      mustFlagString(flags["output-dir"], "output-dir"),
		FontFamily:     mustFlagString(flags["font-family"], "font-family"),
		Timeout:        time.Duration(timeout) * time.Second,
		MaxRedirects:   mustFlagInt(flags["max-redirects"], "max-redirects"),
	})
	if err != nil {
		fail(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := pipeline.Run(ctx, opts, pipeline.Deps{Observer: reportProgress})
	if err != nil {
		fail(err)
	}
	printSummary(res)
}

// reportProgress renders pipeline progress on the terminal.
func reportProgress(p pipeline.Progress) {
	switch p.Stage {
	case pipeline.StageFetch:
		pterm.Info.Printf("loading font %s\n", p.Message)
	case pipeline.StageParse:
		pterm.Info.Printf("parsing font (%s)\n", p.Message)
	case pipeline.StageSelect:
		pterm.Info.Printf("selected %d of %d characters using strategy %s\n", p.Done, p.Total, p.Message)
	case pipeline.StageSplit:
		pterm.Info.Printf("split into %d groups using strategy %s\n", p.Total, p.Message)
	case pipeline.StageSubset:
		if p.Done < p.Total {
			pterm.Printf("  subset %d/%d: %s\n", p.Done+1, p.Total, abbreviate(p.Message, 60))
		}
	case pipeline.StagePackage:
		pterm.Info.Printf("writing package to %s\n", p.Message)
	}
}

func printSummary(res *pipeline.Result) {
	data := [][]string{{"File", "Characters", "Bytes", "unicode-range"}}
	total := 0
	for _, a := range res.Artifacts {
		data = append(data, []string{
			a.FileName,
			strconv.Itoa(a.Codepoints.Len()),
			strconv.Itoa(a.Size),
			abbreviate(a.Ranges, 48),
		})
		total += a.Size
	}
	data = append(data, []string{"total", strconv.Itoa(res.Selected.Len()), strconv.Itoa(total), ""})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Printf("font-family '%s', %d of %d characters in %d files\n",
		res.Family, res.Selected.Len(), res.FontChars, len(res.Artifacts))
	pterm.Info.Printf("package %s written in %s\n", fmt.Sprintf("%s/%s", res.OutputDir, res.Archive),
		res.Elapsed.Round(time.Millisecond))
}

// abbreviate shortens long range descriptors for display.
func abbreviate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
