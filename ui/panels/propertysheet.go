package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"plan-editor/internal/catalog"
	"plan-editor/internal/editor"
	"plan-editor/internal/plan"
)

// PropertySheet edits the selected symbol.
type PropertySheet struct {
	editor *editor.Editor

	typeLabel    *widget.Label
	xEntry       *widget.Entry
	yEntry       *widget.Entry
	rotEntry     *widget.Entry
	duplicateBtn *widget.Button
	deleteBtn    *widget.Button
	emptyLabel   *widget.Label

	container fyne.CanvasObject
}

// NewPropertySheet creates the properties panel.
func NewPropertySheet(e *editor.Editor) *PropertySheet {
	ps := &PropertySheet{editor: e}

	ps.typeLabel = widget.NewLabel("")
	ps.xEntry = ps.numberEntry(func(v float64) plan.SymbolPatch { return plan.SymbolPatch{X: &v} })
	ps.yEntry = ps.numberEntry(func(v float64) plan.SymbolPatch { return plan.SymbolPatch{Y: &v} })
	ps.rotEntry = ps.numberEntry(func(v float64) plan.SymbolPatch { return plan.SymbolPatch{Rot: &v} })

	ps.duplicateBtn = widget.NewButton("Duplicate", func() { e.DuplicateSelected() })
	ps.deleteBtn = widget.NewButton("Delete", func() { e.DeleteSelected() })
	ps.deleteBtn.Importance = widget.DangerImportance

	ps.emptyLabel = widget.NewLabel("No symbol selected")

	form := widget.NewForm(
		widget.NewFormItem("Type", ps.typeLabel),
		widget.NewFormItem("X", ps.xEntry),
		widget.NewFormItem("Y", ps.yEntry),
		widget.NewFormItem("Rotation", ps.rotEntry),
	)
	ps.container = container.NewVBox(
		ps.emptyLabel,
		form,
		container.NewGridWithColumns(2, ps.duplicateBtn, ps.deleteBtn),
	)
	ps.Refresh()
	return ps
}

// numberEntry creates an entry that applies the patch built from its value
// when submitted. Invalid input restores the current value.
func (ps *PropertySheet) numberEntry(patch func(v float64) plan.SymbolPatch) *widget.Entry {
	entry := widget.NewEntry()
	entry.OnSubmitted = func(s string) {
		if v, ok := parseFloat(s); ok {
			ps.editor.UpdateSelected(patch(v))
		}
		ps.Refresh()
	}
	return entry
}

// Refresh syncs the sheet with the selection.
func (ps *PropertySheet) Refresh() {
	s, ok := ps.editor.Selected()
	inputs := []fyne.Disableable{ps.xEntry, ps.yEntry, ps.rotEntry, ps.duplicateBtn, ps.deleteBtn}
	if !ok {
		for _, w := range inputs {
			w.Disable()
		}
		ps.typeLabel.SetText("")
		ps.xEntry.SetText("")
		ps.yEntry.SetText("")
		ps.rotEntry.SetText("")
		ps.emptyLabel.Show()
		return
	}
	for _, w := range inputs {
		w.Enable()
	}
	ps.emptyLabel.Hide()

	label := s.Type
	if st, ok := catalog.LookupSymbol(s.Type); ok {
		label = st.Label
	}
	ps.typeLabel.SetText(label)
	ps.xEntry.SetText(formatFloat(s.X))
	ps.yEntry.SetText(formatFloat(s.Y))
	ps.rotEntry.SetText(formatFloat(s.Rot))
}

// Container returns the panel's container.
func (ps *PropertySheet) Container() fyne.CanvasObject {
	return ps.container
}
