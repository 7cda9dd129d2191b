package main

import (
	"strings"

	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (bool, error) {
	help(op.arg)
	return false, nil
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "select", "strategy", "strategies":
		pterm.Info.Println("select:<strategy>[:<ranges>]")
		pterm.Println(`
	Selects the characters of the font to keep:
	+----------+-----------------------------------------------+
	| all      | every character of the font                   |
	| common   | Basic Latin, Latin-1, General Punctuation     |
	| chinese  | CJK Unified Ideographs, Extensions A and B    |
	| custom   | ranges like U+0020-007E,U+00E9 (no blanks)    |
	+----------+-----------------------------------------------+
	`)
		for _, b := range append(append([]codepoint.Block{}, codepoint.CommonBlocks...), codepoint.ChineseBlocks...) {
			pterm.Printf("\t%-36s %s\n", b.Name, b.Range)
		}
	case "split":
		pterm.Info.Println("split:<strategy>[:<count>]")
		pterm.Println(`
	Splits the selection into groups, one subset font per group:
	+----------+-----------------------------------------------+
	| single   | one group                                     |
	| byRange  | breaks between 1024-codepoint blocks, unless  |
	|          | characters are consecutive                    |
	| byCount  | groups of at most <count> characters          |
	+----------+-----------------------------------------------+
	`)
	case "size":
		pterm.Info.Println("size[:<group>|all[:<format>]]")
		pterm.Println(`
	Subsets one or all groups and prints the size of the resulting fonts.
	Format is one of ttf, otf, woff or woff2 (default).
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info                  font and state summary
	select:<s>[:<ranges>] select characters, see "help:select"
	split:<s>[:<count>]   split selection into groups, see "help:split"
	groups                list groups
	group:<k>             print unicode-range of group k
	ranges                print unicode-range of the selection
	char:<c>              show where a character goes, e.g. char:4E2D or char:é
	size[:<k>[:<format>]] subset and print font sizes, see "help:size"
	quit                  leave
	`)
	}
}
