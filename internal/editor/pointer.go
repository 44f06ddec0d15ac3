package editor

import (
	"plan-editor/internal/catalog"
	"plan-editor/internal/plan"
	"plan-editor/pkg/geometry"
)

// worldPoint maps a screen position to a snapped world point.
func (e *Editor) worldPoint(screen geometry.Point2D) geometry.Point2D {
	return geometry.Snap(e.view.ToWorld(screen), e.snap)
}

func isPanTrigger(ev PointerEvent) bool {
	switch ev.Button {
	case ButtonMiddle, ButtonSecondary:
		return true
	default:
		return ev.Mods.Has(ModShift)
	}
}

// PointerDown handles a button press on the drawing surface.
func (e *Editor) PointerDown(ev PointerEvent) {
	e.hovering = true
	if isPanTrigger(ev) {
		e.panning = true
		return
	}

	w := e.worldPoint(ev.Pos)

	switch {
	case e.tool == ToolAddSymbol && e.layers.Visible(catalog.LayerSymbols):
		e.placeSymbol(w)
		return
	case e.tool == ToolWire && e.layers.Visible(catalog.LayerWires):
		e.extendWire(w)
		return
	case e.tool == ToolMeasure:
		e.clickMeasure(w)
		return
	}

	e.selectAt(w)
}

func (e *Editor) placeSymbol(w geometry.Point2D) {
	id := e.newID()
	e.commit("add-symbol", e.Document().AddSymbol(plan.Symbol{
		ID:   id,
		Type: e.activeSymbol.ID,
		X:    w.X,
		Y:    w.Y,
	}))
	e.selection = id
	e.emit(ChangeDocument | ChangeSelection)
}

func (e *Editor) extendWire(w geometry.Point2D) {
	if e.wireDraft == nil {
		e.wireDraft = &WireDraft{Points: []geometry.Point2D{w}}
	} else {
		e.wireDraft.Points = append(e.wireDraft.Points, w)
	}
	e.emit(ChangeDraft)
}

// clickMeasure starts a draft on the first click and finalizes it on the
// second. Later clicks do nothing until the tool is selected again.
func (e *Editor) clickMeasure(w geometry.Point2D) {
	if !e.measureActive {
		return
	}
	if e.measureDraft == nil {
		e.measureDraft = &MeasureDraft{A: w, B: w}
		e.emit(ChangeDraft)
		return
	}
	e.FinalizeMeasure()
}

func (e *Editor) selectAt(w geometry.Point2D) {
	if s, ok := e.hitTest(w); ok {
		e.selection = s.ID
		e.dragging = true
		e.dragMoved = false
		e.emit(ChangeSelection)
		return
	}
	if e.selection != "" {
		e.selection = ""
		e.emit(ChangeSelection)
	}
}

func (e *Editor) hitTest(w geometry.Point2D) (plan.Symbol, bool) {
	if !e.layers.Visible(catalog.LayerSymbols) {
		return plan.Symbol{}, false
	}
	return e.Document().HitTestSymbol(w, e.hitRadius)
}

// PointerMove handles pointer motion over the drawing surface.
func (e *Editor) PointerMove(ev PointerEvent) {
	e.hovering = true
	if e.panning {
		e.view = e.view.PanBy(ev.Delta.X, ev.Delta.Y)
		e.emit(ChangeViewport)
		return
	}

	w := e.worldPoint(ev.Pos)

	switch {
	case e.dragging:
		e.dragTo(w)
	case e.wireDraft != nil:
		e.wireDraft.Hover = w
		e.wireDraft.HasHover = true
		e.emit(ChangeDraft)
	case e.measureDraft != nil:
		e.measureDraft.B = w
		e.emit(ChangeDraft)
	}
}

// dragTo moves the dragged symbol. The first effective move of a drag
// creates a history entry and later moves amend it, so a whole drag undoes
// in one step.
func (e *Editor) dragTo(w geometry.Point2D) {
	s, ok := e.Document().Symbol(e.selection)
	if !ok {
		e.dragging = false
		return
	}
	if s.X == w.X && s.Y == w.Y {
		return
	}
	move := func(d plan.Document) plan.Document { return d.MoveSymbol(s.ID, w) }
	if e.dragMoved {
		e.hist.Amend(move)
	} else {
		e.commit("move-symbol", move(e.Document()))
		e.dragMoved = true
	}
	e.emit(ChangeDocument)
}

// PointerUp ends any drag or pan.
func (e *Editor) PointerUp() {
	e.endGesture()
}

// PointerLeave ends any drag or pan and clears the hover flag.
func (e *Editor) PointerLeave() {
	e.hovering = false
	e.endGesture()
}

func (e *Editor) endGesture() {
	e.dragging = false
	e.dragMoved = false
	e.panning = false
}

// Wheel zooms around the pointer while Ctrl or Cmd is held. It reports
// whether the event was consumed.
func (e *Editor) Wheel(ev WheelEvent) bool {
	if !ev.Mods.Command() {
		return false
	}
	next := e.view.Wheel(ev.Pos, ev.DeltaY)
	if next != e.view {
		e.view = next
		e.emit(ChangeViewport)
	}
	return true
}
