package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/codepoint"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runPreviewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	if !setTraceLevel(flags["trace"]) {
		fatalf("invalid --trace flag, expected Debug|Info|Error")
	}
	text := args["text"].Value
	if strings.TrimSpace(text) == "" {
		fatalf("text to render is required")
	}
	f := loadFont(args)
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	ppem := mustFlagInt(flags["ppem"], "ppem")
	if width <= 0 || height <= 0 || ppem <= 0 {
		fatalf("width, height and ppem must be positive")
	}
	img, missing, err := renderText(f.SFNT, []rune(text), width, height, ppem,
		mustFlagBool(flags["show-bboxes"], "show-bboxes"))
	if err != nil {
		fail(fontsubset.WrapError(fontsubset.KindParse, "preview", err))
	}
	out := mustFlagString(flags["output"], "output")
	if err := writePNG(out, img); err != nil {
		fail(fontsubset.WrapError(fontsubset.KindIO, "preview", err))
	}
	if missing.Len() > 0 {
		pterm.Info.Printf("font has no glyphs for %s\n", codepoint.FormatRanges(missing))
	}
	pterm.Info.Printf("preview written to %s\n", out)
}

type glyphPath struct {
	segs sfnt.Segments
	dx   float32
	box  fixed.Rectangle26_6
}

// renderText lays out text on a single line, using glyph advances and kerning
// only, and rasterizes it centered into an image of the given size.
// Characters without a glyph are drawn as .notdef and returned as missing.
func renderText(sf *sfnt.Font, text []rune, width, height, ppem int, showBBoxes bool) (*image.RGBA, codepoint.Set, error) {
	if sf == nil {
		return nil, nil, errors.New("no font")
	}
	if sf.UnitsPerEm() <= 0 {
		return nil, nil, errors.New("invalid units-per-em")
	}
	var (
		buf     sfnt.Buffer
		paths   = make([]glyphPath, 0, len(text))
		missing []rune
		penX    float32
		prev    sfnt.GlyphIndex
		minX    float32
		minY    float32
		maxX    float32
		maxY    float32
		have    bool
	)
	scale := fixed.I(ppem)
	for i, r := range text {
		gid, err := sf.GlyphIndex(&buf, r)
		if err != nil {
			return nil, nil, err
		}
		if gid == 0 {
			missing = append(missing, r)
		}
		if i > 0 {
			if k, err := sf.Kern(&buf, prev, gid, scale, font.HintingNone); err == nil {
				penX += float32(k) / 64
			}
		}
		prev = gid
		segs, err := sf.LoadGlyph(&buf, gid, scale, nil)
		if err == nil && len(segs) > 0 {
			// segments are only valid until the buffer is re-used
			segs = append(sfnt.Segments(nil), segs...)
			b := segs.Bounds()
			paths = append(paths, glyphPath{segs: segs, dx: penX, box: b})
			sMinX, sMaxX := float32(b.Min.X)/64+penX, float32(b.Max.X)/64+penX
			sMinY, sMaxY := float32(b.Min.Y)/64, float32(b.Max.Y)/64
			if !have {
				minX, minY, maxX, maxY = sMinX, sMinY, sMaxX, sMaxY
				have = true
			} else {
				minX, minY = min(minX, sMinX), min(minY, sMinY)
				maxX, maxY = max(maxX, sMaxX), max(maxY, sMaxY)
			}
		}
		if adv, err := sf.GlyphAdvance(&buf, gid, scale, font.HintingNone); err == nil {
			penX += float32(adv) / 64
		}
	}
	if len(paths) == 0 {
		return nil, nil, errors.New("no drawable glyph paths found")
	}
	shiftX := (float32(width)-(maxX-minX))/2 - minX
	shiftY := (float32(height)-(maxY-minY))/2 - minY

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	for _, p := range paths {
		x := func(v fixed.Int26_6) float32 { return shiftX + p.dx + float32(v)/64 }
		y := func(v fixed.Int26_6) float32 { return shiftY + float32(v)/64 }
		for _, seg := range p.segs {
			a := seg.Args
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				rast.MoveTo(x(a[0].X), y(a[0].Y))
			case sfnt.SegmentOpLineTo:
				rast.LineTo(x(a[0].X), y(a[0].Y))
			case sfnt.SegmentOpQuadTo:
				rast.QuadTo(x(a[0].X), y(a[0].Y), x(a[1].X), y(a[1].Y))
			case sfnt.SegmentOpCubeTo:
				rast.CubeTo(x(a[0].X), y(a[0].Y), x(a[1].X), y(a[1].Y), x(a[2].X), y(a[2].Y))
			}
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	if showBBoxes {
		for _, p := range paths {
			drawRectOutline(img,
				p.box.Min.X.Floor()+int(shiftX+p.dx), p.box.Min.Y.Floor()+int(shiftY),
				p.box.Max.X.Ceil()+int(shiftX+p.dx), p.box.Max.Y.Ceil()+int(shiftY),
				color.RGBA{255, 0, 0, 255})
		}
	}
	return img, codepoint.NewSet(missing...), nil
}

func writePNG(outPath string, img image.Image) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return f.Close()
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	r := image.Rect(minX, minY, maxX, maxY).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}
