package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"plan-editor/pkg/colorutil"
	"plan-editor/pkg/geometry"
)

// errWriter keeps the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func px(v float64) int { return int(math.Round(v)) }

func strokeStyle(c string, width float64, dashed bool) string {
	s := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", c, width)
	if dashed {
		parts := make([]string, len(DashPattern))
		for i, d := range DashPattern {
			parts[i] = fmt.Sprintf("%g", d)
		}
		s += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	return s
}

// WriteSVG writes the scene as an SVG document in world coordinates.
// bgHref, when not empty and the scene shows the background, is linked as
// the background image.
func WriteSVG(w io.Writer, sc Scene, bgHref string) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := px(sc.World.Width), px(sc.World.Height)
	canvas.Start(width, height)

	if sc.Paper {
		canvas.Rect(0, 0, width, height, "fill:"+colorutil.Hex(colorutil.White))
	}
	if sc.Background && bgHref != "" {
		canvas.Image(0, 0, width, height, bgHref)
	}

	if len(sc.Grid) > 0 {
		canvas.Gstyle(strokeStyle(colorutil.Hex(colorutil.Grid), GridWidth, false))
		for _, g := range sc.Grid {
			canvas.Line(px(g.A.X), px(g.A.Y), px(g.B.X), px(g.B.Y))
		}
		canvas.Gend()
	}

	ink := colorutil.Hex(colorutil.Ink)
	for _, p := range sc.Wires {
		xs, ys := coords(p.Points)
		canvas.Polyline(xs, ys, strokeStyle(ink, WireWidth, false))
	}
	if sc.WireDraft != nil {
		xs, ys := coords(sc.WireDraft.Points)
		canvas.Polyline(xs, ys, strokeStyle(ink, WireWidth, true))
	}

	for _, m := range sc.Symbols {
		fill := colorutil.White
		if m.Selected {
			fill = colorutil.Selected
		}
		canvas.Gtransform(fmt.Sprintf("translate(%g,%g) rotate(%g)", m.Pos.X, m.Pos.Y, m.Rot))
		canvas.Circle(0, 0, SymbolRadius, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", colorutil.Hex(fill), ink, MarkerStroke))
		canvas.Text(0, px(GlyphBase), m.Glyph, fmt.Sprintf("text-anchor:middle;font-size:%gpx;fill:%s", GlyphSize, ink))
		canvas.Gend()
	}

	for _, d := range sc.Measures {
		writeDimension(canvas, d, colorutil.Hex(colorutil.Dim), colorutil.Hex(colorutil.DimText), false)
	}
	if sc.MeasureDraft != nil {
		writeDimension(canvas, *sc.MeasureDraft, colorutil.Hex(colorutil.DimDraft), colorutil.Hex(colorutil.Dim), true)
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

func writeDimension(canvas *svg.SVG, d Dimension, line, text string, dashed bool) {
	canvas.Line(px(d.A.X), px(d.A.Y), px(d.B.X), px(d.B.Y), strokeStyle(line, DimWidth, dashed))
	canvas.Text(px(d.LabelPos.X), px(d.LabelPos.Y), d.Label,
		fmt.Sprintf("text-anchor:middle;font-size:%gpx;fill:%s", LabelSize, text))
}

func coords(pts []geometry.Point2D) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	return xs, ys
}
