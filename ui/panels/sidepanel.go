// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"plan-editor/internal/catalog"
	"plan-editor/internal/editor"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	editor *editor.Editor

	toolsPanel    *ToolsPanel
	layersPanel   *LayersPanel
	propertySheet *PropertySheet

	container *container.AppTabs
}

// NewSidePanel creates the side panel for e.
func NewSidePanel(e *editor.Editor) *SidePanel {
	sp := &SidePanel{editor: e}

	sp.toolsPanel = NewToolsPanel(e)
	sp.layersPanel = NewLayersPanel(e)
	sp.propertySheet = NewPropertySheet(e)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Layers", sp.layersPanel.Container()),
		container.NewTabItem("Properties", sp.propertySheet.Container()),
	)

	e.OnChange(func(c editor.Change) {
		if c.Has(editor.ChangeTool) || c.Has(editor.ChangeSnap) {
			sp.toolsPanel.Refresh()
		}
		if c.Has(editor.ChangeLayers) {
			sp.layersPanel.Refresh()
		}
		if c.Has(editor.ChangeSelection) || c.Has(editor.ChangeDocument) {
			sp.propertySheet.Refresh()
		}
	})
	return sp
}

// Container returns the panel's container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// ToolsPanel selects the tool, the symbol to place, and the grid step.
type ToolsPanel struct {
	editor *editor.Editor

	toolRadio  *widget.RadioGroup
	symbolBtns map[string]*widget.Button
	snapEntry  *widget.Entry
	syncing    bool

	container fyne.CanvasObject
}

// NewToolsPanel creates the tools panel.
func NewToolsPanel(e *editor.Editor) *ToolsPanel {
	tp := &ToolsPanel{editor: e, symbolBtns: map[string]*widget.Button{}}

	var labels []string
	for _, t := range editor.Tools() {
		labels = append(labels, ToolLabel(t))
	}
	tp.toolRadio = widget.NewRadioGroup(labels, func(selected string) {
		if tp.syncing {
			return
		}
		if t, ok := toolForLabel(selected); ok {
			e.SetTool(t)
		}
	})
	tp.toolRadio.Required = true

	palette := container.NewGridWithColumns(2)
	for _, st := range catalog.Symbols() {
		id := st.ID
		btn := widget.NewButton(fmt.Sprintf("%s %s", st.Glyph, st.Label), func() {
			e.ChooseSymbol(id)
		})
		tp.symbolBtns[id] = btn
		palette.Add(btn)
	}

	tp.snapEntry = widget.NewEntry()
	tp.snapEntry.SetPlaceHolder("0 = off")
	tp.snapEntry.OnSubmitted = tp.onSnapSubmitted

	tp.container = container.NewVBox(
		widget.NewLabelWithStyle("Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tp.toolRadio,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Symbols", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		palette,
		widget.NewSeparator(),
		widget.NewForm(widget.NewFormItem("Grid step", tp.snapEntry)),
	)
	tp.Refresh()
	return tp
}

func (tp *ToolsPanel) onSnapSubmitted(s string) {
	if v, ok := parseFloat(s); ok {
		tp.editor.SetSnap(v)
	}
	tp.Refresh()
}

// Refresh syncs the widgets with the editor.
func (tp *ToolsPanel) Refresh() {
	tp.syncing = true
	defer func() { tp.syncing = false }()

	tp.toolRadio.SetSelected(ToolLabel(tp.editor.Tool()))
	active := tp.editor.ActiveSymbol().ID
	for id, btn := range tp.symbolBtns {
		if id == active && tp.editor.Tool() == editor.ToolAddSymbol {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
	tp.snapEntry.SetText(formatFloat(tp.editor.Snap()))
}

// Container returns the panel's container.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.container
}

// LayersPanel shows a visibility check per plan layer.
type LayersPanel struct {
	editor  *editor.Editor
	checks  map[catalog.LayerID]*widget.Check
	syncing bool

	container fyne.CanvasObject
}

// NewLayersPanel creates the layers panel.
func NewLayersPanel(e *editor.Editor) *LayersPanel {
	lp := &LayersPanel{editor: e, checks: map[catalog.LayerID]*widget.Check{}}

	box := container.NewVBox()
	for _, l := range e.Layers() {
		id := l.ID
		check := widget.NewCheck(l.Name, func(checked bool) {
			if lp.syncing {
				return
			}
			e.SetLayerVisible(id, checked)
		})
		lp.checks[id] = check
		box.Add(check)
	}
	lp.container = box
	lp.Refresh()
	return lp
}

// Refresh syncs the checks with the editor.
func (lp *LayersPanel) Refresh() {
	lp.syncing = true
	defer func() { lp.syncing = false }()
	for _, l := range lp.editor.Layers() {
		if check, ok := lp.checks[l.ID]; ok {
			check.SetChecked(l.Visible)
		}
	}
}

// Container returns the panel's container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}
