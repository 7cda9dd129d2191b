/*
Package config holds the configuration of a subsetting run.

Options is an immutable value: it is assembled once from command-line flags
(or by a test), validated, and then handed to the pipeline by value. Nothing
in this module keeps configuration in package-level state.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/sfntio"
)

// Defaults for options not set on the command line.
const (
	DefaultSplitCount   = 1000
	DefaultFontWeight   = "400"
	DefaultFontStyle    = "normal"
	DefaultOutputDir    = "output"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxRedirects = 10
)

// Options configures a subsetting run.
type Options struct {
	FontSource     string // URL or local path of the input font
	SubsetStrategy codepoint.Strategy
	CustomRange    string // range expression for strategy custom
	SplitStrategy  codepoint.SplitStrategy
	SplitCount     int           // maximum group size for split strategy byCount
	OutputFormat   sfntio.Format // container format of subset fonts
	FontWeight     string        // CSS font-weight, 100–900
	FontStyle      string        // CSS font-style, normal or italic
	OutputDir      string
	FontFamily     string // CSS font-family; empty: taken from the font
	Timeout        time.Duration
	MaxRedirects   int
}

// Defaults returns the options used for flags not given.
func Defaults() Options {
	return Options{
		SubsetStrategy: codepoint.All,
		SplitStrategy:  codepoint.Single,
		SplitCount:     DefaultSplitCount,
		OutputFormat:   sfntio.WOFF2,
		FontWeight:     DefaultFontWeight,
		FontStyle:      DefaultFontStyle,
		OutputDir:      DefaultOutputDir,
		Timeout:        DefaultTimeout,
		MaxRedirects:   DefaultMaxRedirects,
	}
}

// Flags are the textual option values as given on a command line. Empty
// strings and zero numbers select the defaults.
type Flags struct {
	FontSource     string
	SubsetStrategy string
	CustomRange    string
	SplitStrategy  string
	SplitCount     int
	OutputFormat   string
	FontWeight     string
	FontStyle      string
	OutputDir      string
	FontFamily     string
	Timeout        time.Duration
	MaxRedirects   int // negative: default
}

// New creates validated Options from command-line flags. Errors are of kind
// fontsubset.KindConfig, or fontsubset.KindRangeExpression for a malformed
// custom range.
func New(flags Flags) (Options, error) {
	opts := Defaults()
	opts.FontSource = strings.TrimSpace(flags.FontSource)
	opts.CustomRange = flags.CustomRange
	opts.FontFamily = strings.TrimSpace(flags.FontFamily)
	var err error
	if flags.SubsetStrategy != "" {
		if opts.SubsetStrategy, err = codepoint.ParseStrategy(flags.SubsetStrategy); err != nil {
			return opts, fontsubset.WrapError(fontsubset.KindConfig, "subset-strategy", err)
		}
	}
	if flags.SplitStrategy != "" {
		if opts.SplitStrategy, err = codepoint.ParseSplitStrategy(flags.SplitStrategy); err != nil {
			return opts, fontsubset.WrapError(fontsubset.KindConfig, "split-strategy", err)
		}
	}
	if flags.SplitCount != 0 {
		opts.SplitCount = flags.SplitCount
	}
	if flags.OutputFormat != "" {
		if opts.OutputFormat, err = sfntio.ParseFormat(flags.OutputFormat); err != nil {
			return opts, fontsubset.WrapError(fontsubset.KindConfig, "output-format", err)
		}
	}
	if flags.FontWeight != "" {
		opts.FontWeight = strings.TrimSpace(flags.FontWeight)
	}
	if flags.FontStyle != "" {
		opts.FontStyle = strings.ToLower(strings.TrimSpace(flags.FontStyle))
	}
	if flags.OutputDir != "" {
		opts.OutputDir = flags.OutputDir
	}
	if flags.Timeout != 0 {
		opts.Timeout = flags.Timeout
	}
	if flags.MaxRedirects >= 0 {
		opts.MaxRedirects = flags.MaxRedirects
	}
	return opts, opts.Validate()
}

// Validate checks the options. Errors are of kind fontsubset.KindConfig, or
// fontsubset.KindRangeExpression for a malformed custom range.
func (o Options) Validate() error {
	invalid := func(flag string, format string, args ...any) error {
		return fontsubset.Errorf(fontsubset.KindConfig, flag, format, args...)
	}
	if o.FontSource == "" {
		return invalid("font-url", "no font source given")
	}
	if o.SubsetStrategy < codepoint.All || o.SubsetStrategy > codepoint.Custom {
		return invalid("subset-strategy", "unknown strategy %d", o.SubsetStrategy)
	}
	if o.SubsetStrategy == codepoint.Custom {
		if strings.TrimSpace(o.CustomRange) == "" {
			return invalid("custom-range", "strategy custom requires a range expression")
		}
		if _, err := codepoint.ParseRangeExpr(o.CustomRange); err != nil {
			return fontsubset.WrapError(fontsubset.KindRangeExpression, "custom-range", err)
		}
	}
	if o.SplitStrategy < codepoint.Single || o.SplitStrategy > codepoint.ByCount {
		return invalid("split-strategy", "unknown split strategy %d", o.SplitStrategy)
	}
	if o.SplitCount <= 0 {
		return invalid("split-count", "must be a positive integer, is %d", o.SplitCount)
	}
	if !o.OutputFormat.IsOutput() {
		return invalid("output-format", "%s is not an output format", o.OutputFormat)
	}
	if w, err := strconv.Atoi(o.FontWeight); err != nil || w < 100 || w > 900 {
		return invalid("font-weight", "%q is not a weight from 100 to 900", o.FontWeight)
	}
	if o.FontStyle != "normal" && o.FontStyle != "italic" {
		return invalid("font-style", "%q is neither normal nor italic", o.FontStyle)
	}
	if strings.TrimSpace(o.OutputDir) == "" {
		return invalid("output-dir", "no output directory given")
	}
	if strings.ContainsAny(o.FontFamily, `'"\;{}`) {
		return invalid("font-family", "%q contains characters not allowed in CSS", o.FontFamily)
	}
	if o.Timeout <= 0 {
		return invalid("timeout", "must be positive, is %s", o.Timeout)
	}
	if o.MaxRedirects < 0 {
		return invalid("max-redirects", "must not be negative, is %d", o.MaxRedirects)
	}
	return nil
}

// Summary lists the options as label/value pairs, in the order used for
// reports.
func (o Options) Summary() [][2]string {
	summary := [][2]string{
		{"Font Source", o.FontSource},
		{"Subset Strategy", o.SubsetStrategy.String()},
	}
	if o.SubsetStrategy == codepoint.Custom {
		summary = append(summary, [2]string{"Custom Range", o.CustomRange})
	}
	summary = append(summary, [2]string{"Split Strategy", o.SplitStrategy.String()})
	if o.SplitStrategy == codepoint.ByCount {
		summary = append(summary, [2]string{"Characters per File", strconv.Itoa(o.SplitCount)})
	}
	summary = append(summary,
		[2]string{"Output Format", o.OutputFormat.Label()},
		[2]string{"Font Weight", o.FontWeight},
		[2]string{"Font Style", o.FontStyle},
	)
	return summary
}

func (o Options) String() string {
	var b strings.Builder
	for i, kv := range o.Summary() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", kv[0], kv[1])
	}
	return b.String()
}
