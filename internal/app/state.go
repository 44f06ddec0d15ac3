// Package app provides the session state of the plan editor: the current
// plan file, background loading, exports, and events.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"plan-editor/internal/background"
	"plan-editor/internal/config"
	"plan-editor/internal/editor"
	"plan-editor/internal/planfile"
	"plan-editor/internal/render"
)

// EventType identifies different application events.
type EventType int

const (
	EventPlanLoaded EventType = iota
	EventPlanSaved
	EventBackgroundLoaded
	EventExported
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the session: the editor, the plan path and the export
// settings.
type State struct {
	mu sync.RWMutex

	Editor *editor.Editor

	// Plan file
	PlanPath string
	Modified bool

	export config.ExportConfig
	log    zerolog.Logger

	// post runs fn on the goroutine that owns the editor. Background work
	// uses it to hand results back; nothing else touches the editor off
	// that goroutine.
	post func(fn func())

	listeners map[EventType][]EventListener
}

// NewState creates a session around e.
func NewState(e *editor.Editor, export config.ExportConfig, log zerolog.Logger) *State {
	s := &State{
		Editor:    e,
		export:    export,
		log:       log,
		post:      func(fn func()) { fn() },
		listeners: make(map[EventType][]EventListener),
	}
	e.OnChange(func(c editor.Change) {
		if c.Has(editor.ChangeDocument) {
			s.SetModified(true)
		}
	})
	return s
}

// SetPoster sets how background results are delivered to the goroutine
// that owns the editor. The default runs them on the loader goroutine, which
// is only safe when the owner blocks on the returned channel, as plantool
// does. A GUI must install its main-thread hop here.
func (s *State) SetPoster(post func(fn func())) {
	if post != nil {
		s.post = post
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit calls the listeners of event.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := append([]EventListener(nil), s.listeners[event]...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(data)
	}
}

// SetModified marks the plan as changed since the last save.
func (s *State) SetModified(modified bool) {
	if s.Modified == modified {
		return
	}
	s.Modified = modified
	s.Emit(EventModified, modified)
}

// Export returns the export settings.
func (s *State) Export() config.ExportConfig {
	return s.export
}

// NewPlan discards the session and starts an empty plan.
func (s *State) NewPlan() {
	s.Editor.Clear()
	s.PlanPath = ""
	s.SetModified(false)
}

// LoadPlan reads a plan file and merges it into the session. A malformed
// file leaves the session untouched. The background, if any, loads in the
// background; the returned channel receives its outcome.
func (s *State) LoadPlan(ctx context.Context, path string) (<-chan error, error) {
	f, err := planfile.Load(path)
	if err != nil {
		return nil, err
	}
	s.Editor.ApplyFile(f)
	s.PlanPath = path
	s.SetModified(false)
	s.log.Info().Str("path", path).Int("symbols", len(s.Editor.Document().Symbols)).Msg("plan loaded")
	s.Emit(EventPlanLoaded, path)

	if !f.HasBackground() {
		return nil, nil
	}
	return s.LoadBackground(ctx, background.Resolve(f.BG.Src, filepath.Dir(path))), nil
}

// SavePlan writes the session to path as a plan file.
func (s *State) SavePlan(path string) error {
	if err := planfile.Save(path, s.Editor.File()); err != nil {
		return err
	}
	s.PlanPath = path
	s.SetModified(false)
	s.log.Info().Str("path", path).Msg("plan saved")
	s.Emit(EventPlanSaved, path)
	return nil
}

// ImportImage loads an image file as the plan background.
func (s *State) ImportImage(ctx context.Context, path string) <-chan error {
	return s.LoadBackground(ctx, background.SourceForPath(path))
}

// LoadBackground decodes src on a goroutine and installs it through the
// poster. A failed decode is logged and leaves the session unchanged. The
// returned channel receives the outcome once installed.
func (s *State) LoadBackground(ctx context.Context, src string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		res := <-background.LoadAsync(ctx, src)
		if res.Err != nil {
			s.log.Warn().Err(res.Err).Str("src", abbreviate(src)).Msg("background not loaded")
			done <- res.Err
			return
		}
		installed := make(chan struct{})
		img := res.Image
		s.post(func() {
			defer close(installed)
			s.Editor.SetBackground(img)
			s.log.Info().Str("src", abbreviate(src)).Int("width", img.Width()).
				Int("height", img.Height()).Msg("background loaded")
			s.Emit(EventBackgroundLoaded, img)
		})
		select {
		case <-installed:
			done <- nil
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done
}

// abbreviate keeps data: URLs out of the logs.
func abbreviate(src string) string {
	if strings.HasPrefix(src, "data:") && len(src) > 32 {
		return src[:32] + "..."
	}
	return src
}

func (s *State) exportScene() render.Export {
	e := s.Editor
	ex := render.Export{Scene: render.BuildScene(render.FromEditor(e))}
	if bg := e.Background(); bg != nil {
		ex.Background = bg.Image
		ex.BackgroundSrc = bg.Src
	}
	return ex
}

// ExportPNG renders the plan at world size and writes it to path. The scene
// is captured immediately; rasterizing and writing run on a goroutine.
func (s *State) ExportPNG(ctx context.Context, path string) <-chan error {
	done := make(chan error, 1)
	results := render.ExportPNG(ctx, s.exportScene(), s.log)
	go func() {
		defer close(done)
		res := <-results
		err := res.Err
		if err == nil {
			err = render.SavePNG(path, res.Image)
		}
		if err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("png export failed")
			done <- err
			return
		}
		s.log.Info().Str("path", path).Msg("png exported")
		emitted := make(chan struct{})
		s.post(func() {
			defer close(emitted)
			s.Emit(EventExported, path)
		})
		select {
		case <-emitted:
			done <- nil
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done
}

// ExportSVG writes the plan as SVG to path.
func (s *State) ExportSVG(path string) (err error) {
	ex := s.exportScene()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := render.WriteSVG(f, ex.Scene, SourceHref(ex.BackgroundSrc)); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("svg exported")
	s.Emit(EventExported, path)
	return nil
}

// SourceHref turns a background source into a link usable from an SVG
// file. Plain paths become file:// URLs.
func SourceHref(src string) string {
	if src == "" || (strings.Contains(src, ":") && !filepath.IsAbs(src)) {
		return src
	}
	if abs, err := filepath.Abs(src); err == nil {
		src = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(src)}
	return u.String()
}

// DefaultName returns the configured file name for an export kind: "json",
// "png" or "svg".
func (s *State) DefaultName(kind string) string {
	switch kind {
	case "png":
		return s.export.PNGName
	case "svg":
		return s.export.SVGName
	default:
		return s.export.JSONName
	}
}
