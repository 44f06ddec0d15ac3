package editor

import (
	"math"

	"plan-editor/internal/background"
	"plan-editor/internal/catalog"
	"plan-editor/internal/plan"
	"plan-editor/internal/planfile"
	"plan-editor/pkg/geometry"
)

// SetTool switches the active tool. Entering or leaving the wire tool drops
// the wire draft, leaving the measure tool drops the measurement draft and
// entering it allows a new measurement.
func (e *Editor) SetTool(t Tool) {
	var c Change
	if (t == ToolWire || e.tool == ToolWire) && e.wireDraft != nil {
		e.wireDraft = nil
		c |= ChangeDraft
	}
	if t != ToolMeasure && e.measureDraft != nil {
		e.measureDraft = nil
		c |= ChangeDraft
	}
	if t == ToolMeasure {
		e.measureActive = true
	}
	if t != e.tool {
		e.tool = t
		c |= ChangeTool
	}
	e.emit(c)
}

// ChooseSymbol makes typeID the symbol to place and switches to the
// add-symbol tool. Unknown ids are ignored.
func (e *Editor) ChooseSymbol(typeID string) bool {
	st, ok := catalog.LookupSymbol(typeID)
	if !ok {
		return false
	}
	e.batch(func() {
		if st != e.activeSymbol {
			e.activeSymbol = st
			e.emit(ChangeTool)
		}
		e.SetTool(ToolAddSymbol)
	})
	return true
}

// UpdateSelected applies patch to the selected symbol.
func (e *Editor) UpdateSelected(patch plan.SymbolPatch) bool {
	s, ok := e.Selected()
	if !ok {
		return false
	}
	e.commit("update-symbol", e.Document().UpdateSymbol(s.ID, patch))
	e.emit(ChangeDocument)
	return true
}

// DuplicateSelected copies the selected symbol with a small offset and
// selects the copy.
func (e *Editor) DuplicateSelected() bool {
	s, ok := e.Selected()
	if !ok {
		return false
	}
	id := e.newID()
	e.commit("duplicate-symbol", e.Document().DuplicateSymbol(s.ID, id, DuplicateOffset))
	e.selection = id
	e.emit(ChangeDocument | ChangeSelection)
	return true
}

// DeleteSelected removes the selected id from symbols and wires and clears
// the selection. A selection that no longer matches anything is cleared
// without a history entry.
func (e *Editor) DeleteSelected() bool {
	if e.selection == "" {
		return false
	}
	id := e.selection
	e.selection = ""
	e.dragging = false
	doc := e.Document()
	c := ChangeSelection
	if doc.Contains(id) {
		e.commit("delete", doc.RemoveID(id))
		c |= ChangeDocument
	}
	e.emit(c)
	return true
}

// ToggleLayer flips the visibility of a layer.
func (e *Editor) ToggleLayer(id catalog.LayerID) {
	e.layers = e.layers.Toggle(id)
	e.emit(ChangeLayers)
}

// SetLayerVisible sets the visibility of a layer.
func (e *Editor) SetLayerVisible(id catalog.LayerID, visible bool) {
	if e.layers.Visible(id) == visible {
		return
	}
	e.layers = e.layers.WithVisible(id, visible)
	e.emit(ChangeLayers)
}

// SetSnap sets the grid step. Negative and NaN values become 0.
func (e *Editor) SetSnap(step float64) {
	step = clampSnap(step)
	if math.IsInf(step, 1) || step == e.snap {
		return
	}
	e.snap = step
	e.emit(ChangeSnap)
}

// SetContainerSize records the drawing surface size in screen units and
// runs a pending fit.
func (e *Editor) SetContainerSize(size geometry.Size) {
	e.container = size
	if e.fitQueued && !size.Empty() {
		e.fitQueued = false
		e.FitToView()
	}
}

// FitToView fits the world into the drawing surface.
func (e *Editor) FitToView() {
	next := e.view.Fit(e.container, e.WorldSize())
	if next != e.view {
		e.view = next
		e.emit(ChangeViewport)
	}
}

// ZoomBy zooms around the surface center by factor.
func (e *Editor) ZoomBy(factor float64) {
	center := geometry.NewPoint2D(e.container.Width/2, e.container.Height/2)
	next := e.view.ZoomAt(center, e.view.Zoom*factor)
	if next != e.view {
		e.view = next
		e.emit(ChangeViewport)
	}
}

// ResetView returns to zoom 1 without pan.
func (e *Editor) ResetView() {
	e.view.Zoom = 1
	e.view.Pan = geometry.Point2D{}
	e.emit(ChangeViewport)
}

// SetBackground replaces the session background. Loading a new source fits
// the view, immediately or as soon as the surface size is known. A nil
// image removes the background.
func (e *Editor) SetBackground(img *background.Image) {
	e.batch(func() {
		fresh := img != nil && (e.bg == nil || e.bg.Src != img.Src)
		e.bg = img
		e.emit(ChangeBackground)
		if !fresh {
			return
		}
		if e.container.Empty() {
			e.fitQueued = true
			return
		}
		e.FitToView()
	})
}

// ApplyFile merges a decoded plan file. The document, if present, becomes
// a new undoable snapshot and the snap, if present, replaces the current
// one. The background is loaded by the caller.
func (e *Editor) ApplyFile(f planfile.File) {
	if err := f.CheckVersion(); err != nil {
		e.log.Warn().Err(err).Msg("importing plan anyway")
	}
	e.batch(func() {
		if f.Data != nil {
			doc := f.Data.Normalize()
			if err := doc.Validate(); err != nil {
				e.log.Warn().Err(err).Msg("imported plan has problems")
			}
			e.endGesture()
			e.commit("import", doc)
			e.emit(ChangeDocument)
			if e.selection != "" && !doc.Contains(e.selection) {
				e.selection = ""
				e.emit(ChangeSelection)
			}
		}
		if f.Snap != nil {
			e.SetSnap(*f.Snap)
		}
	})
}

// File builds the payload for saving the current session.
func (e *Editor) File() planfile.File {
	var bg planfile.Background
	if e.bg != nil {
		bg = planfile.Background{
			Src:           e.bg.Src,
			NaturalWidth:  e.bg.Width(),
			NaturalHeight: e.bg.Height(),
		}
	}
	return planfile.New(e.Document(), bg, e.snap)
}

// Clear starts a new empty plan. History, selection, drafts and the
// background are discarded; layers and snap are kept.
func (e *Editor) Clear() {
	e.hist.Reset(plan.Empty())
	e.selection = ""
	e.wireDraft = nil
	e.measureDraft = nil
	e.measureActive = true
	e.bg = nil
	e.endGesture()
	e.view = e.view.Fit(e.container, e.WorldSize())
	e.emit(ChangeDocument | ChangeSelection | ChangeDraft | ChangeBackground | ChangeViewport)
}
