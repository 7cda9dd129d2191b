package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/fontsubset/subset"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

// Op is a single step of a command line, e.g. "split:byCount:50".
type Op struct {
	code int
	arg  string
	arg2 string
}

// Command is a sequence of Ops.
type Command []Op

const (
	QUIT int = iota
	HELP
	INFO
	SELECT
	SPLIT
	GROUPS
	GROUP
	RANGES
	CHAR
	SIZE
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"info":   INFO,
	"select": SELECT,
	"split":  SPLIT,
	"groups": GROUPS,
	"group":  GROUP,
	"ranges": RANGES,
	"char":   CHAR,
	"size":   SIZE,
}

var commandFn = map[int]func(*Intp, *Op) (bool, error){
	QUIT:   quitOp,
	HELP:   helpOp,
	INFO:   infoOp,
	SELECT: selectOp,
	SPLIT:  splitOp,
	GROUPS: groupsOp,
	GROUP:  groupOp,
	RANGES: rangesOp,
	CHAR:   charOp,
	SIZE:   sizeOp,
}

// parseCommand splits a line into Ops. Unknown commands turn into help
// requests for them.
func parseCommand(line string) Command {
	var cmd Command
	for _, step := range strings.Fields(line) {
		c := strings.SplitN(step, ":", 3)
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			tracer().Infof("unknown command %q", c[0])
			cmd = append(cmd, Op{code: HELP, arg: c[0]})
			continue
		}
		cmd = append(cmd, Op{code: code, arg: getOptArg(c, 1), arg2: getOptArg(c, 2)})
	}
	return cmd
}

// execute runs the Ops of cmd in order, stopping at the first error.
func (intp *Intp) execute(cmd Command) (quit bool) {
	tracer().Debugf("cmd = %v", cmd)
	for i := range cmd {
		stop, err := commandFn[cmd[i].code](intp, &cmd[i])
		if err != nil {
			pterm.Error.Println(err.Error())
			return false
		}
		if stop {
			return true
		}
	}
	return false
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

var errNoGroups = errors.New("no groups, selection is empty")

// --- Operations -------------------------------------------------------

func quitOp(intp *Intp, op *Op) (bool, error) {
	return true, nil
}

func infoOp(intp *Intp, op *Op) (bool, error) {
	f := intp.font
	pterm.Printf("Font:       %s (%s)\n", f.Fontname, f.Filepath)
	pterm.Printf("Family:     %s %s\n", f.Family(), f.Subfamily())
	pterm.Printf("Container:  %s\n", f.Format.Label())
	pterm.Printf("Glyphs:     %d\n", f.NumGlyphs())
	pterm.Printf("Characters: %d\n", intp.chars.Len())
	pterm.Printf("Selection:  %d characters, strategy %s\n", intp.selection.Len(), intp.strategy)
	pterm.Printf("Split:      %d groups, strategy %s\n", len(intp.groups), intp.split)
	return false, nil
}

func selectOp(intp *Intp, op *Op) (bool, error) {
	s, err := codepoint.ParseStrategy(op.arg)
	if err != nil {
		return false, err
	}
	prevS, prevExpr := intp.strategy, intp.expr
	intp.strategy, intp.expr = s, op.arg2
	if err := intp.update(); err != nil {
		intp.strategy, intp.expr = prevS, prevExpr
		return false, err
	}
	if intp.selection.Len() == 0 {
		pterm.Info.Printf("no characters found for strategy %s\n", s)
	}
	return false, nil
}

func splitOp(intp *Intp, op *Op) (bool, error) {
	s, err := codepoint.ParseSplitStrategy(op.arg)
	if err != nil {
		return false, err
	}
	count := intp.count
	if op.arg2 != "" {
		if count, err = strconv.Atoi(op.arg2); err != nil {
			return false, fmt.Errorf("split count: %w", codepoint.ErrInvalidCount)
		}
	}
	prevS, prevCount := intp.split, intp.count
	intp.split, intp.count = s, count
	if err := intp.update(); err != nil {
		intp.split, intp.count = prevS, prevCount
		return false, err
	}
	return false, nil
}

func groupsOp(intp *Intp, op *Op) (bool, error) {
	if len(intp.groups) == 0 {
		return false, errNoGroups
	}
	data := [][]string{{"Group", "Characters", "First", "Last", "unicode-range"}}
	for i, g := range intp.groups {
		ranges := codepoint.FormatRanges(g)
		if utf8.RuneCountInString(ranges) > 48 {
			ranges = string([]rune(ranges)[:47]) + "…"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(g.Len()),
			fmt.Sprintf("U+%04X", g[0]),
			fmt.Sprintf("U+%04X", g[len(g)-1]),
			ranges,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

func groupOp(intp *Intp, op *Op) (bool, error) {
	g, err := intp.group(op.arg)
	if err != nil {
		return false, err
	}
	pterm.Println(codepoint.FormatRanges(g))
	return false, nil
}

func rangesOp(intp *Intp, op *Op) (bool, error) {
	pterm.Println(codepoint.FormatRanges(intp.selection))
	return false, nil
}

func charOp(intp *Intp, op *Op) (bool, error) {
	r, err := parseChar(op.arg)
	if err != nil {
		return false, err
	}
	pterm.Printf("U+%04X %s\n", r, runenames.Name(r))
	if !intp.chars.Contains(r) {
		pterm.Println("  not in font")
		return false, nil
	}
	if !intp.selection.Contains(r) {
		pterm.Printf("  in font, not selected by strategy %s\n", intp.strategy)
		return false, nil
	}
	for i, g := range intp.groups {
		if g.Contains(r) {
			pterm.Printf("  selected, in group %d of %d\n", i+1, len(intp.groups))
		}
	}
	return false, nil
}

// sizeOp subsets a group, or all groups, and reports the resulting sizes.
func sizeOp(intp *Intp, op *Op) (bool, error) {
	format := sfntio.WOFF2
	if op.arg2 != "" {
		var err error
		if format, err = sfntio.ParseFormat(op.arg2); err != nil {
			return false, err
		}
	}
	if intp.engine == nil || intp.engine.Format() != format {
		engine, err := subset.NewEngine(intp.font, format)
		if err != nil {
			return false, err
		}
		intp.engine = engine
	}
	groups := intp.groups
	first := 0
	if op.arg != "" && op.arg != "all" {
		g, err := intp.group(op.arg)
		if err != nil {
			return false, err
		}
		first, _ = strconv.Atoi(op.arg)
		first--
		groups = []codepoint.Set{g}
	}
	if len(groups) == 0 {
		return false, errNoGroups
	}
	total := 0
	for i, g := range groups {
		data, err := intp.engine.Subset(g)
		if err != nil {
			return false, err
		}
		pterm.Printf("group %d: %d characters, %d bytes %s\n", first+i+1, g.Len(), len(data), format)
		total += len(data)
	}
	if len(groups) > 1 {
		pterm.Printf("total: %d bytes\n", total)
	}
	return false, nil
}

// --- Helpers ----------------------------------------------------------

// group returns the group with 1-based index arg.
func (intp *Intp) group(arg string) (codepoint.Set, error) {
	k, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("group number expected, got %q", arg)
	}
	if k < 1 || k > len(intp.groups) {
		return nil, fmt.Errorf("group %d out of range 1…%d", k, len(intp.groups))
	}
	return intp.groups[k-1], nil
}

// parseChar accepts a single character, or a codepoint in hex notation with
// optional "U+" prefix.
func parseChar(arg string) (rune, error) {
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	}
	h := strings.TrimPrefix(strings.ToUpper(arg), "U+")
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil || n > utf8.MaxRune {
		return 0, fmt.Errorf("not a character or codepoint: %q", arg)
	}
	return rune(n), nil
}
