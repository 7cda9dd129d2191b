/*
Package pipeline runs a complete subsetting job: it acquires a font, selects
and splits its codepoints, subsets the font once per group and writes the
package of fonts, style sheet, README, demo page and zip archive.

Run is sequential. Collaborators with side effects (download, subsetting,
file output) are injected through Deps, so tests can run the pipeline without
network access and watch what it does.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/bundle"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/npillmayer/fontsubset/config"
	"github.com/npillmayer/fontsubset/fetch"
	"github.com/npillmayer/fontsubset/otquery"
	"github.com/npillmayer/fontsubset/sfntio"
	"github.com/npillmayer/fontsubset/subset"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// ErrEmptySelection is returned if the subset strategy keeps no codepoints
// of the font.
var ErrEmptySelection = errors.New("no characters found for the selected strategy")

// Fetcher acquires the bytes of a font source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Subsetter creates an encoded subset font for a group of codepoints.
type Subsetter interface {
	Subset(group codepoint.Set) ([]byte, error)
}

// Sink receives the files of a package. Paths are slash-separated and
// relative to the package root.
type Sink interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	Archive(ctx context.Context, name string, paths []string) error
}

// Deps are the collaborators of a run. Zero fields are replaced by the
// defaults: a fetch.Fetcher configured from the options, fontsubset.ParseFont,
// subset.NewEngine and a bundle.Dir for the output directory.
type Deps struct {
	Fetcher      Fetcher
	OpenFont     func(data []byte) (*fontsubset.ScalableFont, error)
	NewSubsetter func(f *fontsubset.ScalableFont, format sfntio.Format) (Subsetter, error)
	Sink         Sink
	Observer     Observer
	Now          func() time.Time
}

func (d Deps) withDefaults(cfg config.Options) Deps {
	if d.Fetcher == nil {
		d.Fetcher = fetch.New(cfg.Timeout, cfg.MaxRedirects)
	}
	if d.OpenFont == nil {
		d.OpenFont = fontsubset.ParseFont
	}
	if d.NewSubsetter == nil {
		d.NewSubsetter = func(f *fontsubset.ScalableFont, format sfntio.Format) (Subsetter, error) {
			engine, err := subset.NewEngine(f, format)
			if err != nil {
				return nil, err
			}
			return engine, nil
		}
	}
	if d.Sink == nil {
		d.Sink = bundle.NewDir(cfg.OutputDir)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// wrap classifies err as kind, unless a collaborator already classified it.
func wrap(kind fontsubset.Kind, op string, err error) error {
	if fontsubset.KindOf(err) != fontsubset.KindUnknown {
		return err
	}
	return fontsubset.WrapError(kind, op, err)
}

// Artifact describes one subset font file of a package.
type Artifact struct {
	Index      int           // 0-based position in group order
	FileName   string        // name within the fonts directory
	Codepoints codepoint.Set // the group
	Ranges     string        // unicode-range descriptor of the group
	Size       int           // encoded size in bytes
}

// K is the 1-based ordinal of a, as used in file names.
func (a Artifact) K() int {
	return a.Index + 1
}

// Result summarizes a successful run.
type Result struct {
	Name      string // file name stem of the package
	Family    string // CSS font-family
	Font      *fontsubset.ScalableFont
	FontChars int           // number of codepoints in the source font
	Selected  codepoint.Set // codepoints selected for subsetting
	Artifacts []Artifact
	CSS       string
	Files     []string // package paths written, in archive order
	Archive   string   // package path of the zip archive
	OutputDir string
	Elapsed   time.Duration
}

// Run executes the subsetting pipeline for cfg. Errors are *fontsubset.Error
// values classifying the failure, except for cancellation of ctx, which is
// returned wrapped as is.
func Run(ctx context.Context, cfg config.Options, deps Deps) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	deps = deps.withDefaults(cfg)
	obs := deps.Observer
	start := deps.Now()
	tracer().Infof("subsetting %s", cfg.FontSource)
	tracer().Debugf("options: %s", cfg)
	//
	obs.notify(StageFetch, 0, 1, cfg.FontSource)
	data, err := deps.Fetcher.Fetch(ctx, cfg.FontSource)
	if err != nil {
		return nil, wrap(fontsubset.KindDownload, "fetch", err)
	}
	obs.notify(StageParse, 0, 1, fmt.Sprintf("%d bytes", len(data)))
	font, err := deps.OpenFont(data)
	if err != nil {
		return nil, wrap(fontsubset.KindParse, "parse font", err)
	}
	font.Filepath = cfg.FontSource
	full := subset.Codepoints(font)
	//
	selected, err := codepoint.Select(full, cfg.SubsetStrategy, cfg.CustomRange)
	if err != nil {
		return nil, wrap(fontsubset.KindRangeExpression, "select", err)
	}
	tracer().Infof("selected %d characters using strategy: %s", selected.Len(), cfg.SubsetStrategy)
	obs.notify(StageSelect, selected.Len(), full.Len(), cfg.SubsetStrategy.String())
	if selected.Len() == 0 {
		return nil, wrap(fontsubset.KindEmptySelection, "select",
			fmt.Errorf("%w: %s", ErrEmptySelection, cfg.SubsetStrategy))
	}
	groups, err := codepoint.Split(selected, cfg.SplitStrategy, cfg.SplitCount)
	if err != nil {
		return nil, wrap(fontsubset.KindConfig, "split", err)
	}
	tracer().Infof("split into %d groups using strategy: %s", len(groups), cfg.SplitStrategy)
	obs.notify(StageSplit, len(groups), len(groups), cfg.SplitStrategy.String())
	//
	res := &Result{
		Name:      fontsubset.BaseName(cfg.FontSource),
		Family:    cfg.FontFamily,
		Font:      font,
		FontChars: full.Len(),
		Selected:  selected,
		OutputDir: cfg.OutputDir,
	}
	if res.Family == "" {
		res.Family = font.Family()
	}
	subsetter, err := deps.NewSubsetter(font, cfg.OutputFormat)
	if err != nil {
		return nil, wrap(fontsubset.KindSubsetEncoding, "subset", err)
	}
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("subsetting cancelled before group %d: %w", i+1, err)
		}
		tracer().Infof("creating subset %d/%d", i+1, len(groups))
		obs.notify(StageSubset, i, len(groups), codepoint.FormatRanges(group))
		fontdata, err := subsetter.Subset(group)
		if err != nil {
			return nil, wrap(fontsubset.KindSubsetEncoding,
				"subset "+strconv.Itoa(i+1), err)
		}
		a := Artifact{
			Index:      i,
			FileName:   bundle.FileName(res.Name, i+1, cfg.OutputFormat),
			Codepoints: group,
			Ranges:     codepoint.FormatRanges(group),
			Size:       len(fontdata),
		}
		path := bundle.FontsDir + "/" + a.FileName
		if err := deps.Sink.WriteFile(ctx, path, fontdata); err != nil {
			return nil, wrap(fontsubset.KindIO, "write "+path, err)
		}
		res.Artifacts = append(res.Artifacts, a)
		res.Files = append(res.Files, path)
	}
	obs.notify(StageSubset, len(groups), len(groups), "")
	//
	if err := writePackage(ctx, cfg, deps, res, start); err != nil {
		return nil, err
	}
	res.Elapsed = deps.Now().Sub(start)
	obs.notify(StageDone, 1, 1, res.Archive)
	tracer().Infof("package %s created with %d font files", res.Archive, len(res.Artifacts))
	return res, nil
}

// writePackage renders and writes style sheet, README and demo page, then
// archives all files of the package.
func writePackage(ctx context.Context, cfg config.Options, deps Deps, res *Result, created time.Time) error {
	deps.Observer.notify(StagePackage, 0, 1, cfg.OutputDir)
	pkg := &bundle.Package{
		Name:     res.Name,
		Family:   res.Family,
		Weight:   cfg.FontWeight,
		Style:    cfg.FontStyle,
		Format:   cfg.OutputFormat,
		Settings: cfg.Summary(),
		FontInfo: fontInfo(res),
		Created:  created,
	}
	for _, a := range res.Artifacts {
		pkg.Files = append(pkg.Files, bundle.FontFile{
			Name:       a.FileName,
			Codepoints: a.Codepoints,
			Size:       a.Size,
		})
	}
	res.CSS = bundle.CSS(pkg)
	readme, err := bundle.README(pkg)
	if err != nil {
		return wrap(fontsubset.KindIO, "render README", err)
	}
	demo, err := bundle.DemoHTML(pkg)
	if err != nil {
		return wrap(fontsubset.KindIO, "render demo page", err)
	}
	for _, file := range []struct{ path, content string }{
		{bundle.StyleSheet, res.CSS},
		{bundle.ReadmeFile, readme},
		{bundle.DemoFile, demo},
	} {
		if err := deps.Sink.WriteFile(ctx, file.path, []byte(file.content)); err != nil {
			return wrap(fontsubset.KindIO, "write "+file.path, err)
		}
		res.Files = append(res.Files, file.path)
	}
	res.Archive = bundle.ArchiveName(res.Name)
	if err := deps.Sink.Archive(ctx, res.Archive, res.Files); err != nil {
		return wrap(fontsubset.KindIO, "write "+res.Archive, err)
	}
	return nil
}

// fontInfo describes the source font for the README. Fonts whose tables
// cannot be read get a shorter description.
func fontInfo(res *Result) [][2]string {
	info := [][2]string{
		{"Family", res.Font.Family()},
		{"Full Name", res.Font.Fontname},
		{"Format", res.Font.Format.Label()},
		{"Glyphs", strconv.Itoa(res.Font.NumGlyphs())},
		{"Characters in Font", strconv.Itoa(res.FontChars)},
	}
	otf, err := sfntio.ReadTables(res.Font.Data)
	if err != nil {
		tracer().Debugf("cannot read font tables: %v", err)
		return info
	}
	desc := otquery.Describe(otf)
	if desc.Version != "" {
		info = append(info, [2]string{"Version", desc.Version})
	}
	if len(desc.LayoutTables) > 0 {
		info = append(info, [2]string{"Layout Tables (dropped)", fmt.Sprint(desc.LayoutTables)})
	}
	return info
}
