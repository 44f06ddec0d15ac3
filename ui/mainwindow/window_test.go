package mainwindow

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-editor/internal/app"
	"plan-editor/internal/catalog"
	"plan-editor/internal/config"
	"plan-editor/internal/editor"
	"plan-editor/internal/logging"
	"plan-editor/internal/plan"
	"plan-editor/internal/planfile"
	"plan-editor/pkg/geometry"
	"plan-editor/ui/prefs"
)

func newWindow(t *testing.T) (*MainWindow, *app.State) {
	t.Helper()
	a := test.NewTempApp(t)
	n := 0
	e := editor.New(editor.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	state := app.NewState(e, config.ExportConfig{JSONName: "plan.json", PNGName: "plan.png", SVGName: "plan.svg"}, logging.Nop())
	mw, err := New(a, state, prefs.New(a.Preferences()), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(mw.Close)
	return mw, state
}

func TestTitleTracksModification(t *testing.T) {
	mw, state := newWindow(t)
	assert.Equal(t, "Plan Editor - New Plan", mw.Title())

	state.Editor.ChooseSymbol("socket")
	state.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(10, 10)})
	assert.Equal(t, "Plan Editor - New Plan *", mw.Title())
	assert.False(t, mw.undoBtn.Disabled())
	assert.True(t, mw.redoBtn.Disabled())

	state.Editor.Undo()
	assert.True(t, mw.undoBtn.Disabled())
	assert.False(t, mw.redoBtn.Disabled())
}

func TestOpenPlan(t *testing.T) {
	mw, state := newWindow(t)
	path := filepath.Join(t.TempDir(), "house.json")
	doc := plan.Empty().AddSymbol(plan.Symbol{ID: "a", Type: "light", X: 5, Y: 5})
	require.NoError(t, planfile.Save(path, planfile.New(doc, planfile.Background{}, 10)))

	mw.OpenPlan(path)
	assert.Equal(t, "Plan Editor - house.json", mw.Title())
	assert.Len(t, state.Editor.Document().Symbols, 1)
	assert.Equal(t, path, mw.prefs.LastPlan())
}

func TestOpenMalformedPlanKeepsDocument(t *testing.T) {
	mw, state := newWindow(t)
	state.Editor.ChooseSymbol("socket")
	state.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(10, 10)})
	before := state.Editor.Document()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	mw.OpenPlan(path)

	assert.Equal(t, before, state.Editor.Document())
	assert.Empty(t, state.PlanPath)
}

func TestZoomControls(t *testing.T) {
	mw, state := newWindow(t)
	assert.Equal(t, "100%", mw.zoomLabel.Text)

	mw.onActualSize()
	mw.onZoomIn()
	assert.InDelta(t, 1.25, state.Editor.Viewport().Zoom, 1e-9)
	assert.Equal(t, "125%", mw.zoomLabel.Text)

	mw.onZoomOut()
	assert.InDelta(t, 1.0, state.Editor.Viewport().Zoom, 1e-9)
}

func TestPreferencesRoundTrip(t *testing.T) {
	mw, state := newWindow(t)
	state.Editor.SetSnap(25)
	state.Editor.SetLayerVisible(catalog.LayerDims, true)
	mw.SavePreferences()

	assert.Equal(t, 25.0, mw.prefs.Snap(10))
	assert.True(t, mw.prefs.DimsVisible())
}

func TestStatusFollowsTool(t *testing.T) {
	mw, state := newWindow(t)
	state.Editor.SetTool(editor.ToolWire)
	assert.Contains(t, mw.statusBar.Text, "Enter to finish")
}

func TestNewPlanSkipsConfirmWhenEmpty(t *testing.T) {
	mw, state := newWindow(t)
	state.Editor.ChooseSymbol("socket")
	state.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(10, 10)})
	state.Editor.SetTool(editor.ToolSelect)
	require.True(t, state.Editor.DeleteSelected())
	require.True(t, state.Modified)

	mw.onNewPlan()
	assert.False(t, state.Modified)
	assert.False(t, state.Editor.CanUndo())
	assert.Equal(t, "Plan Editor - New Plan", mw.Title())
}

func TestNewPlanAsksBeforeDiscarding(t *testing.T) {
	mw, state := newWindow(t)
	state.Editor.ChooseSymbol("socket")
	state.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(10, 10)})

	mw.onNewPlan()
	assert.True(t, state.Modified, "waits for the confirmation")
	assert.Len(t, state.Editor.Document().Symbols, 1)
}
