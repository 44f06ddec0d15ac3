// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"plan-editor/internal/app"
	"plan-editor/internal/background"
	"plan-editor/internal/catalog"
	"plan-editor/internal/editor"
	"plan-editor/internal/planfile"
	"plan-editor/internal/version"
	"plan-editor/pkg/geometry"
	"plan-editor/ui/canvas"
	"plan-editor/ui/dialogs"
	"plan-editor/ui/panels"
	"plan-editor/ui/prefs"
)

const appTitle = "Plan Editor"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	log       zerolog.Logger
	canvas    *canvas.PlanCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	zoomLabel *widget.Label
	undoBtn   *widget.Button
	redoBtn   *widget.Button

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, log zerolog.Logger) (*MainWindow, error) {
	win := fyneApp.NewWindow(appTitle)

	ctx, cancel := context.WithCancel(context.Background())
	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	// Loader and export goroutines hand their results back on the main
	// thread, where every other editor call happens.
	state.SetPoster(fyne.Do)

	if err := mw.setupUI(); err != nil {
		cancel()
		return nil, err
	}
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restorePreferences()
	mw.updateTitle()

	win.SetOnClosed(func() {
		mw.cancel()
		mw.SavePreferences()
	})
	return mw, nil
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() error {
	e := mw.state.Editor

	cvs, err := canvas.NewPlanCanvas(e, mw.log)
	if err != nil {
		return err
	}
	mw.canvas = cvs

	mw.sidePanel = panels.NewSidePanel(e)
	mw.statusBar = widget.NewLabel(panels.ToolHint(e.Tool()))
	mw.zoomLabel = widget.NewLabel("")

	toolbar := mw.createToolbar()

	// Canvas area with toolbar on top
	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas,
	)

	split := container.NewHSplit(
		container.NewVScroll(mw.sidePanel.Container()),
		canvasArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 800))
	return nil
}

// createToolbar creates the toolbar with history and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	e := mw.state.Editor
	mw.undoBtn = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { e.Undo() })
	mw.redoBtn = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { e.Redo() })

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onFit)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	mw.updateHistoryButtons()
	mw.updateZoomLabel()

	return container.NewHBox(
		mw.undoBtn,
		mw.redoBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	e := mw.state.Editor

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Plan", mw.onNewPlan),
		fyne.NewMenuItem("Open Plan...", mw.onOpenPlan),
		fyne.NewMenuItem("Import Plan Image...", mw.onImportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Plan", mw.onSavePlan),
		fyne.NewMenuItem("Save Plan As...", mw.onSavePlanAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItem("Export SVG...", mw.onExportSVG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Plan Properties...", func() {
			dialogs.NewPlanPropertiesDialog(e, mw.Window).Show()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { e.Undo() }),
		fyne.NewMenuItem("Redo", func() { e.Redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Duplicate", func() { e.DuplicateSelected() }),
		fyne.NewMenuItem("Delete", func() { e.DeleteSelected() }),
		fyne.NewMenuItem("Rotate Left", func() { e.KeyDown(editor.KeyEvent{Key: editor.KeyLeft}) }),
		fyne.NewMenuItem("Rotate Right", func() { e.KeyDown(editor.KeyEvent{Key: editor.KeyRight}) }),
	)

	var layerItems []*fyne.MenuItem
	for _, l := range e.Layers() {
		id := l.ID
		layerItems = append(layerItems, fyne.NewMenuItem("Toggle "+l.Name, func() { e.ToggleLayer(id) }))
	}
	viewMenu := fyne.NewMenu("View", append([]*fyne.MenuItem{
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.onFit),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
	}, layerItems...)...)

	var toolItems []*fyne.MenuItem
	for _, t := range editor.Tools() {
		tool := t
		toolItems = append(toolItems, fyne.NewMenuItem(panels.ToolLabel(tool), func() { e.SetTool(tool) }))
	}
	toolsMenu := fyne.NewMenu("Tools", toolItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu))
}

// setupShortcuts registers window shortcuts used while the canvas does not
// have the focus. The canvas handles the same chords itself.
func (mw *MainWindow) setupShortcuts() {
	e := mw.state.Editor
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		c := mw.Canvas()
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}, func(fyne.Shortcut) { e.Undo() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift}, func(fyne.Shortcut) { e.Redo() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: mod}, func(fyne.Shortcut) { e.Redo() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) { mw.onExportPNG() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { mw.onOpenPlan() })
	}
}

// setupEventHandlers registers for application and editor events.
func (mw *MainWindow) setupEventHandlers() {
	e := mw.state.Editor

	// Ctrl/Cmd+S on the canvas exports the plan as PNG.
	e.OnExport(mw.onExportPNG)

	e.OnChange(func(c editor.Change) {
		if c.Has(editor.ChangeDocument) {
			mw.updateHistoryButtons()
		}
		if c.Has(editor.ChangeViewport) {
			mw.updateZoomLabel()
		}
		if c.Has(editor.ChangeTool) {
			mw.updateStatus(panels.ToolHint(e.Tool()))
		}
		if c.Has(editor.ChangeSnap) {
			mw.prefs.SetSnap(e.Snap())
		}
		if c.Has(editor.ChangeTool) {
			mw.prefs.SetActiveSymbol(e.ActiveSymbol().ID)
		}
		if c.Has(editor.ChangeLayers) {
			mw.prefs.SetDimsVisible(e.Layers().Visible(catalog.LayerDims))
		}
	})

	mw.canvas.OnPointer(func(w geometry.Point2D) {
		if s, ok := e.Selected(); ok {
			mw.updateStatus(fmt.Sprintf("%s  |  selected %s at %.0f, %.0f", panels.ToolHint(e.Tool()), s.Type, s.X, s.Y))
		}
	})

	mw.state.On(app.EventPlanLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Plan loaded: " + path)
		}
		mw.updateTitle()
	})
	mw.state.On(app.EventPlanSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Plan saved: " + path)
		}
		mw.updateTitle()
	})
	mw.state.On(app.EventBackgroundLoaded, func(interface{}) {
		mw.updateStatus("Plan image loaded")
	})
	mw.state.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Exported: " + path)
		}
	})
	mw.state.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
	})
}

// restorePreferences applies the stored snap, symbol and layer state.
func (mw *MainWindow) restorePreferences() {
	e := mw.state.Editor
	e.SetSnap(mw.prefs.Snap(e.Snap()))
	if id := mw.prefs.ActiveSymbol(""); id != "" {
		if st, ok := catalog.LookupSymbol(id); ok && st != e.ActiveSymbol() {
			e.ChooseSymbol(id)
			e.SetTool(editor.ToolSelect)
		}
	}
	e.SetLayerVisible(catalog.LayerDims, mw.prefs.DimsVisible())
}

// SavePreferences stores the current editor settings.
func (mw *MainWindow) SavePreferences() {
	e := mw.state.Editor
	mw.prefs.SetSnap(e.Snap())
	mw.prefs.SetActiveSymbol(e.ActiveSymbol().ID)
	mw.prefs.SetDimsVisible(e.Layers().Visible(catalog.LayerDims))
	if mw.state.PlanPath != "" {
		mw.prefs.SetLastPlan(mw.state.PlanPath)
	}
}

func (mw *MainWindow) updateTitle() {
	name := "New Plan"
	if mw.state.PlanPath != "" {
		name = filepath.Base(mw.state.PlanPath)
	}
	title := appTitle + " - " + name
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateHistoryButtons() {
	e := mw.state.Editor
	setEnabled(mw.undoBtn, e.CanUndo())
	setEnabled(mw.redoBtn, e.CanRedo())
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func (mw *MainWindow) updateZoomLabel() {
	mw.zoomLabel.SetText(fmt.Sprintf("%d%%", int(math.Round(mw.state.Editor.Viewport().Zoom*100))))
}

// Menu action handlers

func (mw *MainWindow) onNewPlan() {
	if !mw.state.Modified || mw.state.Editor.Document().IsEmpty() {
		mw.state.NewPlan()
		mw.updateTitle()
		return
	}
	dialog.ShowConfirm("New Plan", "Discard the unsaved changes?", func(ok bool) {
		if ok {
			mw.state.NewPlan()
			mw.updateTitle()
		}
	}, mw.Window)
}

func (mw *MainWindow) onOpenPlan() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenPlan(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.prefs.LastDirURI(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// OpenPlan loads the plan at path. A malformed file is reported to the user
// and leaves the current plan untouched.
func (mw *MainWindow) OpenPlan(path string) {
	bgDone, err := mw.state.LoadPlan(mw.ctx, path)
	if err != nil {
		mw.log.Warn().Err(err).Str("path", path).Msg("plan not loaded")
		if errors.Is(err, planfile.ErrMalformed) {
			dialog.ShowError(fmt.Errorf("invalid plan file: %w", err), mw.Window)
		} else {
			dialog.ShowError(err, mw.Window)
		}
		return
	}
	mw.prefs.SetLastPlan(path)
	if bgDone != nil {
		mw.reportFailure(bgDone, "Plan image not loaded: ")
	}
}

// reportFailure waits for done off the main thread and shows an error in the
// status bar.
func (mw *MainWindow) reportFailure(done <-chan error, prefix string) {
	go func() {
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			fyne.Do(func() { mw.updateStatus(prefix + err.Error()) })
		}
	}()
}

func (mw *MainWindow) onImportImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.prefs.SetLastDir(path)
		if !background.IsSupportedFormat(path) {
			dialog.ShowError(fmt.Errorf("unsupported image format: %s", filepath.Ext(path)), mw.Window)
			return
		}
		mw.updateStatus("Loading " + filepath.Base(path) + "...")
		mw.reportFailure(mw.state.ImportImage(mw.ctx, path), "Plan image not loaded: ")
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(background.SupportedFormats()))
	if loc := mw.prefs.LastDirURI(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSavePlan() {
	if mw.state.PlanPath == "" {
		mw.onSavePlanAs()
		return
	}
	if err := mw.state.SavePlan(mw.state.PlanPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSavePlanAs() {
	mw.saveDialog("json", func(path string) {
		if err := mw.state.SavePlan(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetLastPlan(path)
	})
}

func (mw *MainWindow) onExportPNG() {
	mw.saveDialog("png", func(path string) {
		mw.updateStatus("Exporting " + filepath.Base(path) + "...")
		mw.reportFailure(mw.state.ExportPNG(mw.ctx, path), "Export failed: ")
	})
}

func (mw *MainWindow) onExportSVG() {
	mw.saveDialog("svg", func(path string) {
		if err := mw.state.ExportSVG(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	})
}

// saveDialog asks for a destination with the configured default name for
// kind and makes sure the chosen path carries the extension.
func (mw *MainWindow) saveDialog(kind string, save func(path string)) {
	ext := "." + kind
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		mw.prefs.SetLastDir(path)
		save(path)
	}, mw.Window)
	fd.SetFileName(mw.state.DefaultName(kind))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	if loc := mw.prefs.LastDirURI(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.state.Editor.ZoomBy(1.25)
}

func (mw *MainWindow) onZoomOut() {
	mw.state.Editor.ZoomBy(1 / 1.25)
}

func (mw *MainWindow) onFit() {
	mw.state.Editor.FitToView()
}

func (mw *MainWindow) onActualSize() {
	mw.state.Editor.ResetView()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\n"+
			"Place electrical symbols, wires and measurements over a floor plan.",
			appTitle, version.String()),
		mw.Window)
}
