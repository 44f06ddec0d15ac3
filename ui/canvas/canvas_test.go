package canvas

import (
	"fmt"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-editor/internal/editor"
	"plan-editor/internal/logging"
	"plan-editor/pkg/geometry"
)

func newTestCanvas(t *testing.T) (*PlanCanvas, *editor.Editor) {
	t.Helper()
	test.NewTempApp(t)

	n := 0
	e := editor.New(editor.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	pc, err := NewPlanCanvas(e, logging.Nop())
	require.NoError(t, err)
	pc.Resize(fyne.NewSize(400, 300))
	return pc, e
}

func mouse(x, y float32, b desktop.MouseButton, m fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     b,
		Modifier:   m,
	}
}

func TestPlaceAndDeleteSymbol(t *testing.T) {
	pc, e := newTestCanvas(t)
	e.ChooseSymbol("light")

	pc.MouseDown(mouse(101, 99, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(101, 99, desktop.MouseButtonPrimary, 0))
	require.Len(t, e.Document().Symbols, 1)
	s := e.Document().Symbols[0]
	assert.Equal(t, "light", s.Type)
	assert.Equal(t, 100.0, s.X)
	assert.Equal(t, 100.0, s.Y)
	assert.Equal(t, s.ID, e.Selection())

	pc.TypedKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Equal(t, 15.0, e.Document().Symbols[0].Rot)

	pc.TypedKey(&fyne.KeyEvent{Name: fyne.KeyDelete})
	assert.Empty(t, e.Document().Symbols)
}

func TestDragMovesSymbol(t *testing.T) {
	pc, e := newTestCanvas(t)
	e.ChooseSymbol("socket")
	pc.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(50, 50, desktop.MouseButtonPrimary, 0))
	e.SetTool(editor.ToolSelect)

	pc.MouseIn(mouse(50, 50, 0, 0))
	pc.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary, 0))
	pc.MouseMoved(mouse(70, 80, desktop.MouseButtonPrimary, 0))
	pc.MouseMoved(mouse(90, 110, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(90, 110, desktop.MouseButtonPrimary, 0))

	s := e.Document().Symbols[0]
	assert.Equal(t, 90.0, s.X)
	assert.Equal(t, 110.0, s.Y)
	assert.Equal(t, 2, e.HistoryLen()-1, "placement plus one coalesced drag")
}

func TestSecondaryButtonPans(t *testing.T) {
	pc, e := newTestCanvas(t)
	pc.MouseIn(mouse(10, 10, 0, 0))
	pc.MouseDown(mouse(10, 10, desktop.MouseButtonSecondary, 0))
	assert.True(t, e.Panning())
	pc.MouseMoved(mouse(30, 15, desktop.MouseButtonSecondary, 0))
	assert.Equal(t, geometry.NewPoint2D(20, 5), e.Viewport().Pan)

	pc.MouseOut()
	assert.False(t, e.Panning())
}

func TestScrollZoomNeedsControl(t *testing.T) {
	pc, e := newTestCanvas(t)
	ev := &fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(0, 0)},
		Scrolled:   fyne.Delta{DY: 1},
	}
	pc.Scrolled(ev)
	assert.Equal(t, 1.0, e.Viewport().Zoom)

	pc.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	pc.Scrolled(ev)
	assert.InDelta(t, 1.1, e.Viewport().Zoom, 1e-9)

	pc.KeyUp(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	pc.Scrolled(ev)
	assert.InDelta(t, 1.1, e.Viewport().Zoom, 1e-9)
}

func TestShortcuts(t *testing.T) {
	pc, e := newTestCanvas(t)
	e.ChooseSymbol("socket")
	pc.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(50, 50, desktop.MouseButtonPrimary, 0))

	pc.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl})
	assert.Empty(t, e.Document().Symbols)
	pc.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl})
	assert.Len(t, e.Document().Symbols, 1)

	exported := false
	e.OnExport(func() { exported = true })
	pc.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierSuper})
	assert.True(t, exported)
}

func TestWireWithEnter(t *testing.T) {
	pc, e := newTestCanvas(t)
	e.SetTool(editor.ToolWire)
	pc.MouseIn(mouse(0, 0, 0, 0))
	pc.MouseDown(mouse(0, 0, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(0, 0, desktop.MouseButtonPrimary, 0))
	pc.MouseDown(mouse(100, 0, desktop.MouseButtonPrimary, 0))
	pc.MouseUp(mouse(100, 0, desktop.MouseButtonPrimary, 0))
	pc.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})

	require.Len(t, e.Document().Wires, 1)
	assert.Len(t, e.Document().Wires[0].Points, 2)
}

func TestDrawUsesWidgetScale(t *testing.T) {
	pc, _ := newTestCanvas(t)
	img := pc.draw(800, 600)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Same(t, pc.GetRenderedOutput(), img)
}

func TestReadout(t *testing.T) {
	pc, e := newTestCanvas(t)
	assert.Equal(t, "100%", pc.readout.String())

	pc.MouseMoved(mouse(12, 34, 0, 0))
	assert.Equal(t, "12, 34  100%", pc.readout.String())

	e.ZoomBy(2)
	assert.Contains(t, pc.readout.String(), "200%")

	pc.MouseOut()
	assert.Equal(t, "200%", pc.readout.String())
}

func TestCursorFollowsGesture(t *testing.T) {
	pc, e := newTestCanvas(t)
	assert.Equal(t, desktop.DefaultCursor, pc.Cursor())

	pc.MouseDown(mouse(200, 150, desktop.MouseButtonSecondary, 0))
	assert.Equal(t, desktop.PointerCursor, pc.Cursor(), "panning")
	pc.MouseUp(mouse(200, 150, desktop.MouseButtonSecondary, 0))
	assert.Equal(t, desktop.DefaultCursor, pc.Cursor())

	e.SetTool(editor.ToolWire)
	assert.Equal(t, desktop.CrosshairCursor, pc.Cursor())
}
