// Package render derives the drawable scene of a plan and rasterizes it for
// the canvas, the PNG export and the SVG export.
package render

import (
	"plan-editor/internal/catalog"
	"plan-editor/internal/plan"
	"plan-editor/pkg/geometry"
)

// Drawing constants, in world units.
const (
	GridWidth    = 1.0
	WireWidth    = 2.0
	DimWidth     = 2.0
	MarkerStroke = 1.0
	SymbolRadius = plan.SymbolRadius
	GlyphSize    = 16.0
	GlyphBase    = 6.0 // glyph baseline below the marker center
	LabelSize    = 12.0
	LabelOffset  = 6.0

	// MaxGridLines skips the grid when the step is too fine to be useful.
	MaxGridLines = 4000
)

// DashPattern is used for drafts.
var DashPattern = []float64{4, 4}

// Segment is a straight line between two world points.
type Segment struct {
	A, B geometry.Point2D
}

// Path is an open polyline.
type Path struct {
	ID     string
	Points []geometry.Point2D
}

// Marker is a placed symbol.
type Marker struct {
	ID       string
	Pos      geometry.Point2D
	Rot      float64
	Glyph    string
	Code     string
	Selected bool
}

// Dimension is a measurement line with its label.
type Dimension struct {
	Segment
	Label    string
	LabelPos geometry.Point2D
}

// Scene is everything drawn for one frame, in world coordinates and in
// drawing order. Groups on hidden layers are empty.
type Scene struct {
	World        geometry.Size
	Background   bool // background image layer shown
	Paper        bool // white sheet, used when no background is shown
	Grid         []Segment
	Wires        []Path
	WireDraft    *Path
	Symbols      []Marker
	Measures     []Dimension
	MeasureDraft *Dimension
}

// SceneInput is the state a scene is derived from.
type SceneInput struct {
	Doc           plan.Document
	Layers        catalog.Layers
	Selection     string
	World         geometry.Size
	Snap          float64
	HasBackground bool
	WireDraft     []geometry.Point2D // preview points, hover included
	MeasureDraft  *Segment
}

// BuildScene derives the scene for in.
func BuildScene(in SceneInput) Scene {
	sc := Scene{
		World:      in.World,
		Background: in.HasBackground && in.Layers.Visible(catalog.LayerBackground),
		Grid:       gridLines(in.World, in.Snap),
	}
	sc.Paper = !sc.Background

	if in.Layers.Visible(catalog.LayerWires) {
		for _, w := range in.Doc.Wires {
			sc.Wires = append(sc.Wires, Path{ID: w.ID, Points: w.Points})
		}
		if len(in.WireDraft) > 0 {
			sc.WireDraft = &Path{Points: in.WireDraft}
		}
	}

	if in.Layers.Visible(catalog.LayerSymbols) {
		for _, s := range in.Doc.Symbols {
			sc.Symbols = append(sc.Symbols, Marker{
				ID:       s.ID,
				Pos:      s.Pos(),
				Rot:      s.Rot,
				Glyph:    catalog.Glyph(s.Type),
				Code:     catalog.Code(s.Type),
				Selected: s.ID == in.Selection,
			})
		}
	}

	if in.Layers.Visible(catalog.LayerDims) {
		for _, m := range in.Doc.Measures {
			sc.Measures = append(sc.Measures, dimension(m.A, m.B))
		}
		if in.MeasureDraft != nil {
			d := dimension(in.MeasureDraft.A, in.MeasureDraft.B)
			sc.MeasureDraft = &d
		}
	}
	return sc
}

// dimension labels a segment with its length, placed at the midpoint and
// pushed off the line.
func dimension(a, b geometry.Point2D) Dimension {
	return Dimension{
		Segment:  Segment{A: a, B: b},
		Label:    plan.FormatDistance(geometry.Distance(a, b)),
		LabelPos: a.Midpoint(b).Add(geometry.PerpendicularOffset(a, b, LabelOffset)),
	}
}

func gridLines(world geometry.Size, step float64) []Segment {
	if step <= 0 || world.Empty() {
		return nil
	}
	if (world.Width/step)+(world.Height/step) > MaxGridLines {
		return nil
	}
	var lines []Segment
	for x := 0.0; x <= world.Width; x += step {
		lines = append(lines, Segment{A: geometry.NewPoint2D(x, 0), B: geometry.NewPoint2D(x, world.Height)})
	}
	for y := 0.0; y <= world.Height; y += step {
		lines = append(lines, Segment{A: geometry.NewPoint2D(0, y), B: geometry.NewPoint2D(world.Width, y)})
	}
	return lines
}
