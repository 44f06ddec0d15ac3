package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-editor/internal/background"
	"plan-editor/internal/config"
	"plan-editor/internal/editor"
	"plan-editor/internal/logging"
	"plan-editor/internal/plan"
	"plan-editor/internal/planfile"
	"plan-editor/pkg/geometry"
)

func newState(t *testing.T) *State {
	t.Helper()
	n := 0
	e := editor.New(editor.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	return NewState(e, config.ExportConfig{
		JSONName: "plan.json",
		PNGName:  "plan.png",
		SVGName:  "plan.svg",
	}, logging.Nop())
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("timed out")
		return nil
	}
}

func samplePlan() plan.Document {
	return plan.Empty().
		AddSymbol(plan.Symbol{ID: "a", Type: "socket", X: 10, Y: 20}).
		AddWire(plan.Wire{ID: "w", Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}}})
}

func TestLoadPlan(t *testing.T) {
	s := newState(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	require.NoError(t, planfile.Save(path, planfile.New(samplePlan(), planfile.Background{}, 25)))

	var loaded interface{}
	s.On(EventPlanLoaded, func(data interface{}) { loaded = data })

	bgDone, err := s.LoadPlan(context.Background(), path)
	require.NoError(t, err)
	assert.Nil(t, bgDone)
	assert.Equal(t, path, loaded)
	assert.Equal(t, path, s.PlanPath)
	assert.False(t, s.Modified)
	assert.Len(t, s.Editor.Document().Symbols, 1)
	assert.Equal(t, 25.0, s.Editor.Snap())
	assert.True(t, s.Editor.CanUndo(), "import is undoable")
}

func TestLoadPlanMalformed(t *testing.T) {
	s := newState(t)
	s.Editor.ChooseSymbol("socket")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(10, 10)})
	before := s.Editor.Document()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.LoadPlan(context.Background(), path)
	assert.ErrorIs(t, err, planfile.ErrMalformed)
	assert.Equal(t, before, s.Editor.Document())
	assert.Empty(t, s.PlanPath)
}

func TestLoadPlanWithRelativeBackground(t *testing.T) {
	s := newState(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "bg.png"), 320, 240)
	path := filepath.Join(dir, "plan.json")
	require.NoError(t, planfile.Save(path, planfile.New(samplePlan(), planfile.Background{Src: "bg.png"}, 10)))

	bgDone, err := s.LoadPlan(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, bgDone)
	require.NoError(t, wait(t, bgDone))

	bg := s.Editor.Background()
	require.NotNil(t, bg)
	assert.Equal(t, 320, bg.Width())
	assert.Equal(t, geometry.Size{Width: 320, Height: 240}, s.Editor.WorldSize())
}

func TestImportImage(t *testing.T) {
	s := newState(t)
	path := filepath.Join(t.TempDir(), "scan.png")
	writePNG(t, path, 64, 48)

	var got interface{}
	s.On(EventBackgroundLoaded, func(data interface{}) { got = data })
	require.NoError(t, wait(t, s.ImportImage(context.Background(), path)))
	require.NotNil(t, s.Editor.Background())
	assert.Equal(t, background.SourceForPath(path), s.Editor.Background().Src)
	assert.NotNil(t, got)
}

func TestImportImageFailureKeepsState(t *testing.T) {
	s := newState(t)
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	err := wait(t, s.ImportImage(context.Background(), path))
	assert.ErrorIs(t, err, background.ErrDecode)
	assert.Nil(t, s.Editor.Background())
}

func TestSavePlan(t *testing.T) {
	s := newState(t)
	s.Editor.ChooseSymbol("tv")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(40, 40)})
	assert.True(t, s.Modified)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, s.SavePlan(path))
	assert.False(t, s.Modified)
	assert.Equal(t, path, s.PlanPath)

	f, err := planfile.Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Data)
	assert.Equal(t, s.Editor.Document(), *f.Data)
	assert.Equal(t, planfile.Version, f.Version)
}

func TestNewPlan(t *testing.T) {
	s := newState(t)
	s.Editor.ChooseSymbol("tv")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(40, 40)})
	s.PlanPath = "x.json"

	s.NewPlan()
	assert.True(t, s.Editor.Document().IsEmpty())
	assert.Empty(t, s.PlanPath)
	assert.False(t, s.Modified)
}

func TestExportPNG(t *testing.T) {
	s := newState(t)
	s.Editor.ChooseSymbol("socket")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(40, 40)})

	path := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, wait(t, s.ExportPNG(context.Background(), path)))

	img, err := background.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Width())
	assert.Equal(t, 900, img.Height())
}

func TestExportPNGCancelled(t *testing.T) {
	s := newState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := wait(t, s.ExportPNG(ctx, filepath.Join(t.TempDir(), "plan.png")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportSVG(t *testing.T) {
	s := newState(t)
	s.Editor.ChooseSymbol("socket")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(40, 40)})

	path := filepath.Join(t.TempDir(), "plan.svg")
	require.NoError(t, s.ExportSVG(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "translate(40,40)")
}

func TestSourceHref(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", ""},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"file:///plans/a.png", "file:///plans/a.png"},
		{"/plans/a b.png", "file:///plans/a%20b.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceHref(tt.src), tt.src)
	}
}

func TestDefaultName(t *testing.T) {
	s := newState(t)
	assert.Equal(t, "plan.json", s.DefaultName("json"))
	assert.Equal(t, "plan.png", s.DefaultName("png"))
	assert.Equal(t, "plan.svg", s.DefaultName("svg"))
}

func TestModifiedEvents(t *testing.T) {
	s := newState(t)
	var events []bool
	s.On(EventModified, func(data interface{}) { events = append(events, data.(bool)) })

	s.Editor.ChooseSymbol("socket")
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(40, 40)})
	s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(80, 40)})
	s.SetModified(false)
	assert.Equal(t, []bool{true, false}, events)
}

func TestNewSession(t *testing.T) {
	s := NewSession(config.Config{
		Editor:  config.EditorConfig{Snap: 5, HitRadius: 30},
		History: config.HistoryConfig{Limit: 2},
		Export:  config.ExportConfig{DefaultWidth: 800, DefaultHeight: 600, PNGName: "x.png"},
	}, logging.Nop())

	assert.Equal(t, 5.0, s.Editor.Snap())
	assert.Equal(t, geometry.Size{Width: 800, Height: 600}, s.Editor.WorldSize())
	assert.Equal(t, "x.png", s.DefaultName("png"))

	s.Editor.ChooseSymbol("socket")
	for i := 0; i < 5; i++ {
		s.Editor.PointerDown(editor.PointerEvent{Pos: geometry.NewPoint2D(float64(i*100), 0)})
	}
	assert.Equal(t, 2, s.Editor.HistoryLen())
}
