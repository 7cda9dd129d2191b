/*
Command fscli is an interactive shell for exploring how a font's characters
would be selected and split into web font subsets.

	fscli -font path/or/url.ttf [-trace Debug|Info|Error]

Commands may be chained on one line, separated by blanks. Arguments are
appended with colons, e.g.

	select:custom:U+0020-007E,U+4E00-4E0F split:byCount:50 groups

Quit with <ctrl>D or "quit".
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/config"
	"github.com/npillmayer/fontsubset/fetch"
	"github.com/npillmayer/fontsubset/subset"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":  "go",
		"trace.fontsubset": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (path or URL)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the font subset CLI")
	//
	// set up REPL
	repl, err := readline.New("fs > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := newIntp(repl)
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. It holds a font together with the current
// selection and split state.
type Intp struct {
	repl      *readline.Instance
	font      *fontsubset.ScalableFont
	chars     codepoint.Set // all characters of the font
	strategy  codepoint.Strategy
	expr      string // custom range expression
	selection codepoint.Set
	split     codepoint.SplitStrategy
	count     int
	groups    []codepoint.Set
	engine    *subset.Engine // created on first use
}

func newIntp(repl *readline.Instance) *Intp {
	return &Intp{
		repl:     repl,
		strategy: codepoint.All,
		split:    codepoint.Single,
		count:    config.DefaultSplitCount,
	}
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	s := fmt.Sprintf("( %s: %d chars", intp.font.Family(), intp.chars.Len())
	s += fmt.Sprintf(" -> %s: %d", intp.strategy, intp.selection.Len())
	if intp.split == codepoint.ByCount {
		s += fmt.Sprintf(" -> %s(%d): %d groups )", intp.split, intp.count, len(intp.groups))
	} else {
		s += fmt.Sprintf(" -> %s: %d groups )", intp.split, len(intp.groups))
	}
	return s
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		quit := intp.execute(cmd)
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(source string) error {
	if source == "" {
		return errors.New("no font given, use -font <path or URL>")
	}
	fetcher := fetch.New(config.DefaultTimeout, config.DefaultMaxRedirects)
	data, err := fetcher.Fetch(context.Background(), source)
	if err != nil {
		return err
	}
	if err = intp.setFont(data); err != nil {
		return err
	}
	intp.font.Filepath = source
	pterm.Printf("loaded %s font %q with %d characters\n", intp.font.Format, intp.font.Fontname, intp.chars.Len())
	return nil
}

// setFont parses a font and resets selection and groups.
func (intp *Intp) setFont(data []byte) (err error) {
	if intp.font, err = fontsubset.ParseFont(data); err != nil {
		return err
	}
	intp.chars = subset.Codepoints(intp.font)
	intp.engine = nil
	return intp.update()
}

// update re-runs selection and split after a change of strategies. A failing
// step leaves the previous state untouched.
func (intp *Intp) update() error {
	sel, err := codepoint.Select(intp.chars, intp.strategy, intp.expr)
	if err != nil {
		return err
	}
	var groups []codepoint.Set
	if sel.Len() > 0 {
		if groups, err = codepoint.Split(sel, intp.split, intp.count); err != nil {
			return err
		}
	}
	intp.selection, intp.groups = sel, groups
	tracer().Debugf("selection of %d characters in %d groups", sel.Len(), len(groups))
	return nil
}
