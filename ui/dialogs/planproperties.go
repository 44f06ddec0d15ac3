// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"plan-editor/internal/catalog"
	"plan-editor/internal/editor"
	"plan-editor/internal/plan"
)

// PlanPropertiesDialog shows a summary of the open plan and edits the
// session settings that are saved with it.
type PlanPropertiesDialog struct {
	editor *editor.Editor
	window fyne.Window

	snapEntry *widget.Entry
	summary   *widget.Label
	problems  *widget.Label
}

// NewPlanPropertiesDialog creates the dialog for e.
func NewPlanPropertiesDialog(e *editor.Editor, window fyne.Window) *PlanPropertiesDialog {
	return &PlanPropertiesDialog{editor: e, window: window}
}

// Show displays the dialog.
func (d *PlanPropertiesDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Plan Properties",
		"Apply",
		"Cancel",
		content,
		func(apply bool) {
			if apply {
				d.applyChanges()
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 480))
	dlg.Show()
}

func (d *PlanPropertiesDialog) createContent() fyne.CanvasObject {
	e := d.editor

	d.snapEntry = widget.NewEntry()
	d.snapEntry.SetText(strconv.FormatFloat(e.Snap(), 'f', -1, 64))

	world := e.WorldSize()
	image := "none"
	if bg := e.Background(); bg != nil {
		image = fmt.Sprintf("%s (%d x %d)", shortSource(bg.Src), bg.Width(), bg.Height())
	}

	settingsForm := widget.NewForm(
		widget.NewFormItem("Grid step", d.snapEntry),
		widget.NewFormItem("Plan image", widget.NewLabel(image)),
		widget.NewFormItem("Drawing size", widget.NewLabel(fmt.Sprintf("%.0f x %.0f", world.Width, world.Height))),
		widget.NewFormItem("History", widget.NewLabel(historyText(e.HistoryLen()))),
	)

	doc := e.Document()
	d.summary = widget.NewLabel(strings.Join(SummaryLines(doc), "\n"))
	d.problems = widget.NewLabel("No problems found")
	if err := doc.Validate(); err != nil {
		d.problems.SetText(err.Error())
		d.problems.Importance = widget.DangerImportance
	}
	d.problems.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		settingsForm,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Content", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		d.summary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Checks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		d.problems,
	))
}

// applyChanges copies valid entries back into the editor.
func (d *PlanPropertiesDialog) applyChanges() {
	text := strings.ReplaceAll(strings.TrimSpace(d.snapEntry.Text), ",", ".")
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		d.editor.SetSnap(v)
	}
}

// SummaryLines describes the content of doc, one fact per line. Symbol
// types are listed by catalog label in alphabetical order of their ids.
func SummaryLines(doc plan.Document) []string {
	st := doc.Stats()
	lines := []string{fmt.Sprintf("Symbols: %d", st.Symbols)}

	types := make([]string, 0, len(st.SymbolsByType))
	for t := range st.SymbolsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		label := t
		if s, ok := catalog.LookupSymbol(t); ok {
			label = s.Label
		}
		lines = append(lines, fmt.Sprintf("  %s: %d", label, st.SymbolsByType[t]))
	}

	lines = append(lines,
		fmt.Sprintf("Wires: %d (%s)", st.Wires, plan.FormatDistance(st.WireLength)),
		fmt.Sprintf("Measurements: %d", st.Measurements),
	)
	return lines
}

func historyText(n int) string {
	if n == 1 {
		return "1 state"
	}
	return fmt.Sprintf("%d states", n)
}

func shortSource(src string) string {
	if strings.HasPrefix(src, "data:") {
		if i := strings.IndexByte(src, ';'); i > 0 {
			return src[:i]
		}
		return "data:"
	}
	return src
}
