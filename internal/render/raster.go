package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"plan-editor/internal/viewport"
	"plan-editor/pkg/colorutil"
	"plan-editor/pkg/geometry"
)

// Renderer rasterizes scenes. Font faces are cached per size, so a
// Renderer must not be shared between goroutines.
type Renderer struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewRenderer parses the bundled font.
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{font: f, faces: map[float64]font.Face{}}, nil
}

func (r *Renderer) face(size float64) font.Face {
	size = math.Max(1, math.Round(size*2)/2)
	if f, ok := r.faces[size]; ok {
		return f
	}
	if len(r.faces) > 64 {
		r.faces = map[float64]font.Face{}
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// covers reports whether the font has a glyph for every rune of s.
func (r *Renderer) covers(s string) bool {
	for _, c := range s {
		if r.font.Index(c) == 0 {
			return false
		}
	}
	return true
}

// Raster draws the scene at world resolution, one pixel per world unit,
// over bg when the scene shows the background.
func (r *Renderer) Raster(sc Scene, bg image.Image) *image.RGBA {
	w := int(math.Ceil(sc.World.Width))
	h := int(math.Ceil(sc.World.Height))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetColor(colorutil.White)
	dc.Clear()
	r.paint(dc, sc, bg, geometry.Identity(), 1)
	return dc.Image().(*image.RGBA)
}

// View draws the scene as seen through v on a w x h pixel surface.
// pixelScale converts the viewport's screen units to pixels.
func (r *Renderer) View(sc Scene, bg image.Image, v viewport.Viewport, w, h int, pixelScale float64) *image.RGBA {
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetColor(colorutil.Surface)
	dc.Clear()
	t := geometry.Scale(pixelScale, pixelScale).Compose(v.Transform())
	r.paint(dc, sc, bg, t, v.Zoom*pixelScale)
	return dc.Image().(*image.RGBA)
}

// Raster draws sc at world resolution with a fresh Renderer.
func Raster(sc Scene, bg image.Image) (*image.RGBA, error) {
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return r.Raster(sc, bg), nil
}

type painter struct {
	r     *Renderer
	dc    *gg.Context
	t     geometry.AffineTransform
	scale float64
}

func (r *Renderer) paint(dc *gg.Context, sc Scene, bg image.Image, t geometry.AffineTransform, scale float64) {
	p := &painter{r: r, dc: dc, t: t, scale: scale}

	if sc.Paper {
		p.fillRect(sc.World, colorutil.White)
	}
	if sc.Background && bg != nil {
		dc.Push()
		dc.Translate(t.TX, t.TY)
		dc.Scale(t.A, t.D)
		dc.DrawImage(bg, 0, 0)
		dc.Pop()
	}

	if len(sc.Grid) > 0 {
		for _, g := range sc.Grid {
			p.segment(g)
		}
		p.stroke(colorutil.Grid, GridWidth, false)
	}

	for _, w := range sc.Wires {
		p.polyline(w.Points)
		p.stroke(colorutil.Ink, WireWidth, false)
	}
	if sc.WireDraft != nil {
		p.polyline(sc.WireDraft.Points)
		p.stroke(colorutil.Ink, WireWidth, true)
	}

	for _, m := range sc.Symbols {
		p.marker(m)
	}

	for _, d := range sc.Measures {
		p.dimension(d, colorutil.Dim, colorutil.DimText, false)
	}
	if sc.MeasureDraft != nil {
		p.dimension(*sc.MeasureDraft, colorutil.DimDraft, colorutil.Dim, true)
	}
}

func (p *painter) at(w geometry.Point2D) (float64, float64) {
	s := p.t.Apply(w)
	return s.X, s.Y
}

func (p *painter) fillRect(size geometry.Size, c color.Color) {
	x0, y0 := p.at(geometry.Point2D{})
	x1, y1 := p.at(geometry.NewPoint2D(size.Width, size.Height))
	p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	p.dc.SetColor(c)
	p.dc.Fill()
}

func (p *painter) segment(s Segment) {
	x0, y0 := p.at(s.A)
	x1, y1 := p.at(s.B)
	p.dc.DrawLine(x0, y0, x1, y1)
}

func (p *painter) polyline(pts []geometry.Point2D) {
	for i, pt := range pts {
		x, y := p.at(pt)
		if i == 0 {
			p.dc.MoveTo(x, y)
		} else {
			p.dc.LineTo(x, y)
		}
	}
}

func (p *painter) stroke(c color.Color, width float64, dashed bool) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width * p.scale)
	if dashed {
		d := make([]float64, len(DashPattern))
		for i, v := range DashPattern {
			d[i] = v * p.scale
		}
		p.dc.SetDash(d...)
	} else {
		p.dc.SetDash()
	}
	p.dc.Stroke()
}

func (p *painter) marker(m Marker) {
	cx, cy := p.at(m.Pos)
	r := SymbolRadius * p.scale

	p.dc.DrawCircle(cx, cy, r)
	if m.Selected {
		p.dc.SetColor(colorutil.Selected)
	} else {
		p.dc.SetColor(colorutil.White)
	}
	p.dc.FillPreserve()
	p.dc.SetColor(colorutil.Ink)
	p.dc.SetLineWidth(MarkerStroke * p.scale)
	p.dc.SetDash()
	p.dc.Stroke()

	text := m.Glyph
	if !p.r.covers(text) {
		text = m.Code
	}
	p.dc.Push()
	p.dc.RotateAbout(gg.Radians(m.Rot), cx, cy)
	p.dc.SetFontFace(p.r.face(GlyphSize * p.scale))
	p.dc.DrawStringAnchored(text, cx, cy+GlyphBase*p.scale, 0.5, 0)
	p.dc.Pop()
}

func (p *painter) dimension(d Dimension, line, text color.Color, dashed bool) {
	p.segment(d.Segment)
	p.stroke(line, DimWidth, dashed)

	x, y := p.at(d.LabelPos)
	p.dc.SetColor(text)
	p.dc.SetFontFace(p.r.face(LabelSize * p.scale))
	p.dc.DrawStringAnchored(d.Label, x, y, 0.5, 0)
}
