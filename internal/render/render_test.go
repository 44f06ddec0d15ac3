package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-editor/internal/background"
	"plan-editor/internal/catalog"
	"plan-editor/internal/editor"
	"plan-editor/internal/logging"
	"plan-editor/internal/plan"
	"plan-editor/internal/viewport"
	"plan-editor/pkg/colorutil"
	"plan-editor/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func sampleInput() SceneInput {
	doc := plan.Empty().
		AddSymbol(plan.Symbol{ID: "s1", Type: "socket", X: 100, Y: 100}).
		AddSymbol(plan.Symbol{ID: "s2", Type: "bogus", X: 200, Y: 100, Rot: 90}).
		AddWire(plan.Wire{ID: "w1", Points: []geometry.Point2D{pt(10, 10), pt(300, 10), pt(300, 200)}}).
		AddMeasurement(plan.NewMeasurement("m1", pt(0, 400), pt(300, 400)))
	return SceneInput{
		Doc:       doc,
		Layers:    catalog.DefaultLayers().WithVisible(catalog.LayerDims, true),
		Selection: "s1",
		World:     geometry.Size{Width: 400, Height: 300},
		Snap:      50,
	}
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestBuildScene(t *testing.T) {
	sc := BuildScene(sampleInput())

	assert.True(t, sc.Paper)
	assert.False(t, sc.Background)
	assert.Len(t, sc.Grid, 9+7)
	require.Len(t, sc.Wires, 1)
	require.Len(t, sc.Symbols, 2)
	assert.True(t, sc.Symbols[0].Selected)
	assert.False(t, sc.Symbols[1].Selected)
	assert.Equal(t, "⭘", sc.Symbols[0].Glyph)
	assert.Equal(t, catalog.UnknownGlyph, sc.Symbols[1].Glyph)
	assert.Equal(t, 90.0, sc.Symbols[1].Rot)

	require.Len(t, sc.Measures, 1)
	d := sc.Measures[0]
	assert.Equal(t, "3.00 m", d.Label)
	assert.InDelta(t, 150, d.LabelPos.X, 1e-9)
	assert.InDelta(t, 394, d.LabelPos.Y, 1e-9)
	assert.Nil(t, sc.WireDraft)
	assert.Nil(t, sc.MeasureDraft)
}

func TestBuildSceneLayerGating(t *testing.T) {
	in := sampleInput()
	in.Layers = catalog.DefaultLayers().
		WithVisible(catalog.LayerWires, false).
		WithVisible(catalog.LayerSymbols, false)
	in.WireDraft = []geometry.Point2D{pt(0, 0), pt(5, 5)}
	in.MeasureDraft = &Segment{A: pt(0, 0), B: pt(0, 100)}

	sc := BuildScene(in)
	assert.Empty(t, sc.Wires)
	assert.Nil(t, sc.WireDraft)
	assert.Empty(t, sc.Symbols)
	assert.Empty(t, sc.Measures, "dims hidden by default")
	assert.Nil(t, sc.MeasureDraft)
	assert.NotEmpty(t, sc.Grid, "grid is not a layer")
}

func TestBuildSceneDrafts(t *testing.T) {
	in := sampleInput()
	in.WireDraft = []geometry.Point2D{pt(0, 0), pt(5, 5)}
	in.MeasureDraft = &Segment{A: pt(0, 0), B: pt(0, 100)}

	sc := BuildScene(in)
	require.NotNil(t, sc.WireDraft)
	assert.Len(t, sc.WireDraft.Points, 2)
	require.NotNil(t, sc.MeasureDraft)
	assert.Equal(t, "1.00 m", sc.MeasureDraft.Label)
	assert.InDelta(t, -6, sc.MeasureDraft.LabelPos.X, 1e-9, "vertical lines get the label on the left")
}

func TestBuildSceneBackground(t *testing.T) {
	in := sampleInput()
	in.HasBackground = true
	sc := BuildScene(in)
	assert.True(t, sc.Background)
	assert.False(t, sc.Paper)

	in.Layers = in.Layers.WithVisible(catalog.LayerBackground, false)
	sc = BuildScene(in)
	assert.False(t, sc.Background)
	assert.True(t, sc.Paper)
}

func TestGridLines(t *testing.T) {
	assert.Nil(t, gridLines(geometry.Size{Width: 100, Height: 100}, 0))
	assert.Nil(t, gridLines(geometry.Size{}, 10))
	assert.Nil(t, gridLines(geometry.Size{Width: 1600, Height: 900}, 0.1))
	assert.Len(t, gridLines(geometry.Size{Width: 100, Height: 50}, 10), 11+6)
}

func TestFromEditor(t *testing.T) {
	e := editor.New(editor.WithSnap(0))
	e.SetTool(editor.ToolWire)
	e.PointerDown(editor.PointerEvent{Pos: pt(10, 10)})
	e.PointerMove(editor.PointerEvent{Pos: pt(20, 30)})

	in := FromEditor(e)
	assert.Equal(t, []geometry.Point2D{pt(10, 10), pt(20, 30)}, in.WireDraft)
	assert.Nil(t, in.MeasureDraft)
	assert.Equal(t, viewport.DefaultWorldSize, in.World)
	assert.False(t, in.HasBackground)
}

func TestRasterWorldSize(t *testing.T) {
	sc := BuildScene(sampleInput())
	img, err := Raster(sc, nil)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())

	assert.Equal(t, colorutil.Selected, rgba(img.At(100, 90)), "selected marker fill")
	assert.Equal(t, colorutil.White, rgba(img.At(200, 90)), "plain marker fill")
	assert.Equal(t, colorutil.Ink, rgba(img.At(150, 10)), "wire stroke")
	assert.Equal(t, colorutil.White, rgba(img.At(20, 30)), "paper")
}

func TestRasterBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 400, 300))
	fill := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			bg.SetRGBA(x, y, fill)
		}
	}
	in := sampleInput()
	in.HasBackground = true
	in.Snap = 0

	img, err := Raster(BuildScene(in), bg)
	require.NoError(t, err)
	assert.Equal(t, fill, rgba(img.At(20, 30)))
}

func TestView(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	in := sampleInput()
	in.Snap = 0
	v := viewport.Viewport{Zoom: 2, Pan: pt(10, 20)}
	img := r.View(BuildScene(in), nil, v, 300, 200, 1)
	assert.Equal(t, image.Rect(0, 0, 300, 200), img.Bounds())

	assert.Equal(t, colorutil.Surface, rgba(img.At(5, 5)), "outside the world")
	assert.Equal(t, colorutil.White, rgba(img.At(40, 60)), "paper")
	assert.Equal(t, colorutil.Selected, rgba(img.At(210, 195)), "selected marker at screen (210,220)")

	hi := r.View(BuildScene(in), nil, v, 600, 400, 2)
	assert.Equal(t, image.Rect(0, 0, 600, 400), hi.Bounds())
	assert.Equal(t, colorutil.Surface, rgba(hi.At(10, 10)))
	assert.Equal(t, colorutil.White, rgba(hi.At(80, 120)))
}

func TestCoversFallsBackToCode(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.True(t, r.covers("TV"))
	assert.True(t, r.covers(catalog.UnknownGlyph))
	assert.False(t, r.covers("⭘"))
}

func TestWriteSVG(t *testing.T) {
	in := sampleInput()
	in.HasBackground = true
	in.WireDraft = []geometry.Point2D{pt(0, 0), pt(5, 5)}
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, BuildScene(in), "file:///plans/a.png"))

	out := buf.String()
	assert.Contains(t, out, `width="400" height="300"`)
	assert.Contains(t, out, "file:///plans/a.png")
	assert.Contains(t, out, "translate(100,100) rotate(0)")
	assert.Contains(t, out, "3.00 m")
	assert.Contains(t, out, "stroke-dasharray:4,4")
	assert.Contains(t, out, colorutil.Hex(colorutil.Selected))

	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if err != nil {
			assert.ErrorContains(t, err, "EOF")
			break
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriteSVGError(t *testing.T) {
	err := WriteSVG(failingWriter{}, BuildScene(sampleInput()), "")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExportPNG(t *testing.T) {
	sc := BuildScene(sampleInput())
	select {
	case res := <-ExportPNG(context.Background(), Export{Scene: sc}, logging.Nop()):
		require.NoError(t, res.Err)
		assert.Equal(t, 400, res.Image.Bounds().Dx())
	case <-time.After(10 * time.Second):
		t.Fatal("export timed out")
	}
}

func TestExportPNGDecodesBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 640, 480))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, bg))

	in := sampleInput()
	in.HasBackground = true
	in.World = viewport.WorldSize(640, 480)
	res := <-ExportPNG(context.Background(), Export{
		Scene:         BuildScene(in),
		BackgroundSrc: background.EncodeDataURL("image/png", buf.Bytes()),
	}, logging.Nop())
	require.NoError(t, res.Err)
	assert.Equal(t, image.Rect(0, 0, 640, 480), res.Image.Bounds())
}

func TestExportPNGBadBackgroundFallsBackToWhite(t *testing.T) {
	in := sampleInput()
	in.HasBackground = true
	in.Snap = 0
	res := <-ExportPNG(context.Background(), Export{
		Scene:         BuildScene(in),
		BackgroundSrc: "data:image/png;base64,AAAA",
	}, logging.Nop())
	require.NoError(t, res.Err)
	assert.Equal(t, colorutil.White, rgba(res.Image.At(20, 30)))
}

func TestSavePNG(t *testing.T) {
	img, err := Raster(BuildScene(sampleInput()), nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, SavePNG(path, img))

	bg, err := background.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, bg.Width())
}
