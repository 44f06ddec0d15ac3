// Package canvas provides the plan drawing surface with pan, zoom, and
// pointer and keyboard input.
package canvas

import (
	"image"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"plan-editor/internal/editor"
	"plan-editor/internal/render"
	"plan-editor/internal/viewport"
	"plan-editor/pkg/geometry"
)

// frame is what the raster draws. It is rebuilt on the event thread and
// read by the draw callback.
type frame struct {
	scene render.Scene
	bg    image.Image
	view  viewport.Viewport
}

// PlanCanvas displays an editor's plan and feeds it pointer, wheel and key
// events.
type PlanCanvas struct {
	widget.BaseWidget

	editor   *editor.Editor
	renderer *render.Renderer
	log      zerolog.Logger

	raster  *fynecanvas.Raster
	readout *readout

	mu    sync.Mutex
	frame frame

	// Interaction state
	mods    editor.Modifier
	last    geometry.Point2D
	hasLast bool

	// Last rendered output for tests and sampling
	lastOutput *image.RGBA

	onPointer func(world geometry.Point2D)
}

var (
	_ desktop.Mouseable  = (*PlanCanvas)(nil)
	_ desktop.Hoverable  = (*PlanCanvas)(nil)
	_ desktop.Keyable    = (*PlanCanvas)(nil)
	_ desktop.Cursorable = (*PlanCanvas)(nil)
	_ fyne.Scrollable    = (*PlanCanvas)(nil)
	_ fyne.Shortcutable  = (*PlanCanvas)(nil)
)

// NewPlanCanvas creates a canvas bound to e.
func NewPlanCanvas(e *editor.Editor, log zerolog.Logger) (*PlanCanvas, error) {
	r, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}
	pc := &PlanCanvas{
		editor:   e,
		renderer: r,
		log:      log,
		readout:  newReadout(),
	}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.SetMinSize(fyne.NewSize(200, 150))

	e.OnChange(func(c editor.Change) {
		pc.update()
		if c.Has(editor.ChangeViewport) {
			pc.readout.setZoom(e.Viewport().Zoom)
		}
	})
	pc.update()
	pc.readout.setZoom(e.Viewport().Zoom)

	pc.ExtendBaseWidget(pc)
	return pc, nil
}

// OnPointer sets a callback receiving the world position under the pointer.
func (pc *PlanCanvas) OnPointer(callback func(world geometry.Point2D)) {
	pc.onPointer = callback
}

// Editor returns the bound editor.
func (pc *PlanCanvas) Editor() *editor.Editor {
	return pc.editor
}

// GetRenderedOutput returns the last rendered frame.
func (pc *PlanCanvas) GetRenderedOutput() *image.RGBA {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.lastOutput
}

// update snapshots the editor state for the next draw.
func (pc *PlanCanvas) update() {
	e := pc.editor
	f := frame{
		scene: render.BuildScene(render.FromEditor(e)),
		view:  e.Viewport(),
	}
	if bg := e.Background(); bg != nil {
		f.bg = bg.Image
	}
	pc.mu.Lock()
	pc.frame = f
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// draw is the raster drawing function.
func (pc *PlanCanvas) draw(w, h int) image.Image {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	scale := 1.0
	if size := pc.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	out := pc.renderer.View(pc.frame.scene, pc.frame.bg, pc.frame.view, w, h, scale)
	pc.lastOutput = out
	return out
}

// Resize reports the new surface size to the editor.
func (pc *PlanCanvas) Resize(size fyne.Size) {
	pc.BaseWidget.Resize(size)
	pc.editor.SetContainerSize(geometry.NewSize(float64(size.Width), float64(size.Height)))
}

// CreateRenderer implements fyne.Widget.
func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &planCanvasRenderer{canvas: pc}
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

func toModifier(m fyne.KeyModifier) editor.Modifier {
	var mods editor.Modifier
	if m&fyne.KeyModifierShift != 0 {
		mods |= editor.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		mods |= editor.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		mods |= editor.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		mods |= editor.ModSuper
	}
	return mods
}

func toButton(b desktop.MouseButton) editor.Button {
	switch {
	case b&desktop.MouseButtonSecondary != 0:
		return editor.ButtonSecondary
	case b&desktop.MouseButtonTertiary != 0:
		return editor.ButtonMiddle
	default:
		return editor.ButtonPrimary
	}
}

func (pc *PlanCanvas) pointer(ev *desktop.MouseEvent) editor.PointerEvent {
	pos := toPoint(ev.Position)
	var delta geometry.Point2D
	if pc.hasLast {
		delta = pos.Sub(pc.last)
	}
	pc.last, pc.hasLast = pos, true
	pc.mods = toModifier(ev.Modifier)
	return editor.PointerEvent{
		Pos:    pos,
		Delta:  delta,
		Button: toButton(ev.Button),
		Mods:   pc.mods,
	}
}

// MouseDown implements desktop.Mouseable.
func (pc *PlanCanvas) MouseDown(ev *desktop.MouseEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(pc); c != nil {
		c.Focus(pc)
	}
	pc.editor.PointerDown(pc.pointer(ev))
}

// MouseUp implements desktop.Mouseable.
func (pc *PlanCanvas) MouseUp(*desktop.MouseEvent) {
	pc.editor.PointerUp()
}

// MouseIn implements desktop.Hoverable.
func (pc *PlanCanvas) MouseIn(ev *desktop.MouseEvent) {
	pc.hasLast = false
	pc.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (pc *PlanCanvas) MouseMoved(ev *desktop.MouseEvent) {
	pe := pc.pointer(ev)
	pc.editor.PointerMove(pe)

	world := pc.editor.Viewport().ToWorld(pe.Pos)
	pc.readout.setPosition(world)
	if pc.onPointer != nil {
		pc.onPointer(world)
	}
}

// MouseOut implements desktop.Hoverable.
func (pc *PlanCanvas) MouseOut() {
	pc.hasLast = false
	pc.editor.PointerLeave()
	pc.readout.clearPosition()
}

// Cursor shows a grab pointer while moving the view or a symbol and a
// crosshair for the drawing tools.
func (pc *PlanCanvas) Cursor() desktop.Cursor {
	e := pc.editor
	switch {
	case e.Panning() || e.Dragging():
		return desktop.PointerCursor
	case e.Tool() != editor.ToolSelect:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// Scrolled zooms around the pointer while Ctrl or Cmd is held.
func (pc *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pc.editor.Wheel(editor.WheelEvent{
		Pos:    toPoint(ev.Position),
		DeltaY: -float64(ev.Scrolled.DY),
		Mods:   pc.mods,
	})
}

// FocusGained implements fyne.Focusable.
func (pc *PlanCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (pc *PlanCanvas) FocusLost() {
	pc.mods = 0
}

// TypedRune implements fyne.Focusable.
func (pc *PlanCanvas) TypedRune(rune) {}

// TypedKey maps editing keys to the editor.
func (pc *PlanCanvas) TypedKey(ev *fyne.KeyEvent) {
	var key editor.Key
	switch ev.Name {
	case fyne.KeyDelete:
		key = editor.KeyDelete
	case fyne.KeyLeft:
		key = editor.KeyLeft
	case fyne.KeyRight:
		key = editor.KeyRight
	case fyne.KeyReturn, fyne.KeyEnter:
		key = editor.KeyEnter
	case fyne.KeyEscape:
		key = editor.KeyEscape
	default:
		return
	}
	pc.editor.KeyDown(editor.KeyEvent{Key: key, Mods: pc.mods})
}

// KeyDown tracks modifier keys for the wheel.
func (pc *PlanCanvas) KeyDown(ev *fyne.KeyEvent) {
	pc.mods |= modifierKey(ev.Name)
}

// KeyUp implements desktop.Keyable.
func (pc *PlanCanvas) KeyUp(ev *fyne.KeyEvent) {
	pc.mods &^= modifierKey(ev.Name)
}

func modifierKey(name fyne.KeyName) editor.Modifier {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return editor.ModShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return editor.ModCtrl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return editor.ModAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return editor.ModSuper
	}
	return 0
}

// TypedShortcut routes Ctrl/Cmd chords (undo, redo, export) to the editor.
func (pc *PlanCanvas) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok {
		pc.editor.KeyDown(editor.KeyEvent{
			Key:  editor.Key(strings.ToLower(string(cs.KeyName))),
			Mods: toModifier(cs.Modifier),
		})
		return
	}
	switch s.ShortcutName() {
	case "Undo":
		pc.editor.KeyDown(editor.KeyEvent{Key: editor.KeyZ, Mods: editor.ModCtrl})
	case "Redo":
		pc.editor.KeyDown(editor.KeyEvent{Key: editor.KeyY, Mods: editor.ModCtrl})
	}
}

type planCanvasRenderer struct {
	canvas *PlanCanvas
}

func (r *planCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
	r.canvas.raster.Move(fyne.NewPos(0, 0))
	r.canvas.readout.layout(size)
}

func (r *planCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *planCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
	r.canvas.readout.text.Refresh()
}

func (r *planCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster, r.canvas.readout.text}
}

func (r *planCanvasRenderer) Destroy() {}
