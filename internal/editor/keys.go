package editor

import "plan-editor/internal/plan"

// KeyDown applies the key bindings and reports whether the key was used.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	key := NormalizeKey(ev.Key)

	if ev.Mods.Command() {
		switch key {
		case KeyZ:
			if ev.Mods.Has(ModShift) {
				e.Redo()
			} else {
				e.Undo()
			}
			return true
		case KeyY:
			e.Redo()
			return true
		case KeyS:
			if e.onExport != nil {
				e.onExport()
			}
			return true
		}
	}

	switch key {
	case KeyDelete:
		e.DeleteSelected()
		return true
	case KeyLeft:
		return e.rotateSelected(-RotationStep)
	case KeyRight:
		return e.rotateSelected(RotationStep)
	case KeyEnter:
		if !e.hovering {
			return false
		}
		switch e.tool {
		case ToolWire:
			e.FinalizeWire()
		case ToolMeasure:
			e.FinalizeMeasure()
		}
		return true
	case KeyEscape:
		e.Cancel()
		return true
	}
	return false
}

func (e *Editor) rotateSelected(delta float64) bool {
	s, ok := e.Selected()
	if !ok {
		return false
	}
	e.commit("rotate-symbol", e.Document().RotateSymbol(s.ID, delta))
	e.emit(ChangeDocument)
	return true
}

// Undo steps back one snapshot.
func (e *Editor) Undo() bool {
	e.endGesture()
	if !e.hist.Undo() {
		return false
	}
	e.emit(ChangeDocument)
	return true
}

// Redo steps forward one snapshot.
func (e *Editor) Redo() bool {
	e.endGesture()
	if !e.hist.Redo() {
		return false
	}
	e.emit(ChangeDocument)
	return true
}

// FinalizeWire commits the wire draft if it has at least two points. The
// draft is discarded either way.
func (e *Editor) FinalizeWire() {
	d := e.wireDraft
	if d == nil {
		return
	}
	e.wireDraft = nil
	if len(d.Points) < 2 {
		e.emit(ChangeDraft)
		return
	}
	e.commit("add-wire", e.Document().AddWire(plan.Wire{
		ID:     e.newID(),
		Points: d.Points,
	}))
	e.emit(ChangeDocument | ChangeDraft)
}

// FinalizeMeasure commits the measurement draft. Measuring stays disabled
// until the measure tool is selected again.
func (e *Editor) FinalizeMeasure() {
	d := e.measureDraft
	if d == nil {
		return
	}
	e.measureDraft = nil
	e.measureActive = false
	e.commit("add-measurement", e.Document().AddMeasurement(plan.NewMeasurement(e.newID(), d.A, d.B)))
	e.emit(ChangeDocument | ChangeDraft)
}

// Cancel drops every draft and returns to the select tool.
func (e *Editor) Cancel() {
	var c Change
	if e.wireDraft != nil || e.measureDraft != nil {
		e.wireDraft = nil
		e.measureDraft = nil
		c |= ChangeDraft
	}
	if e.tool != ToolSelect {
		e.tool = ToolSelect
		c |= ChangeTool
	}
	e.emit(c)
}
