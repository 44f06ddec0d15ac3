// Package editor implements the interaction state machine of the plan
// canvas: tool modes, drafts, selection, dragging, panning and key
// bindings. All document edits go through an undo history.
//
// An Editor is not safe for concurrent use; it is driven from the UI event
// loop only.
package editor

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"plan-editor/internal/background"
	"plan-editor/internal/catalog"
	"plan-editor/internal/history"
	"plan-editor/internal/plan"
	"plan-editor/internal/viewport"
	"plan-editor/pkg/geometry"
)

const (
	// DefaultSnap is the initial grid step in world units.
	DefaultSnap = 10.0
	// DefaultHitRadius is the symbol selection radius in world units.
	DefaultHitRadius = 20.0
	// RotationStep is the rotation applied by the arrow keys, in degrees.
	RotationStep = 15.0
)

// DuplicateOffset shifts a duplicated symbol from its source.
var DuplicateOffset = geometry.NewPoint2D(20, 20)

// IDFunc generates element ids.
type IDFunc func() string

// WireDraft is an uncommitted wire. Hover is the trailing preview point.
type WireDraft struct {
	Points   []geometry.Point2D
	Hover    geometry.Point2D
	HasHover bool
}

// Preview returns the draft points followed by the hover point, or the last
// point repeated when there is no hover yet.
func (d WireDraft) Preview() []geometry.Point2D {
	out := append([]geometry.Point2D(nil), d.Points...)
	switch {
	case d.HasHover:
		out = append(out, d.Hover)
	case len(d.Points) > 0:
		out = append(out, d.Points[len(d.Points)-1])
	}
	return out
}

// MeasureDraft is an uncommitted measurement.
type MeasureDraft struct {
	A, B geometry.Point2D
}

// Option configures an Editor.
type Option func(*Editor)

// WithSnap sets the initial grid step.
func WithSnap(step float64) Option {
	return func(e *Editor) { e.snap = clampSnap(step) }
}

// WithHitRadius sets the selection radius.
func WithHitRadius(r float64) Option {
	return func(e *Editor) {
		if r > 0 {
			e.hitRadius = r
		}
	}
}

// WithHistoryLimit bounds the undo stack. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.historyLimit = n }
}

// WithIDFunc replaces the uuid id generator.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Editor) { e.newID = fn }
}

// WithWorldSize sets the world extent used while there is no background.
func WithWorldSize(size geometry.Size) Option {
	return func(e *Editor) {
		if !size.Empty() {
			e.world = size
		}
	}
}

// WithLogger sets the logger used for commit and import messages.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// Editor owns the session state of one plan.
type Editor struct {
	hist         *history.History[plan.Document]
	historyLimit int

	view      viewport.Viewport
	world     geometry.Size
	container geometry.Size
	fitQueued bool

	layers       catalog.Layers
	tool         Tool
	activeSymbol catalog.SymbolType
	snap         float64
	hitRadius    float64

	selection string
	dragging  bool
	dragMoved bool
	panning   bool
	hovering  bool

	wireDraft     *WireDraft
	measureDraft  *MeasureDraft
	measureActive bool

	bg *background.Image

	newID     IDFunc
	onChange  []func(Change)
	onExport  func()
	log       zerolog.Logger
	suspended Change
	batching  bool
}

// New creates an editor with an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		view:          viewport.Default(),
		world:         viewport.DefaultWorldSize,
		layers:        catalog.DefaultLayers(),
		tool:          ToolSelect,
		activeSymbol:  catalog.DefaultSymbol(),
		snap:          DefaultSnap,
		hitRadius:     DefaultHitRadius,
		measureActive: true,
		newID:         uuid.NewString,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = history.New(plan.Empty(), history.WithLimit(e.historyLimit))
	return e
}

// OnChange registers a listener called after every state change.
func (e *Editor) OnChange(fn func(Change)) {
	e.onChange = append(e.onChange, fn)
}

// OnExport registers the handler for the export key binding.
func (e *Editor) OnExport(fn func()) {
	e.onExport = fn
}

func (e *Editor) emit(c Change) {
	if c == 0 {
		return
	}
	if e.batching {
		e.suspended |= c
		return
	}
	for _, fn := range e.onChange {
		fn(c)
	}
}

// batch coalesces the notifications of fn into one.
func (e *Editor) batch(fn func()) {
	if e.batching {
		fn()
		return
	}
	e.batching = true
	fn()
	e.batching = false
	c := e.suspended
	e.suspended = 0
	e.emit(c)
}

// Document returns the current snapshot.
func (e *Editor) Document() plan.Document { return e.hist.Current() }

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// HistoryLen returns the number of snapshots held.
func (e *Editor) HistoryLen() int { return e.hist.Len() }

// Viewport returns the pan/zoom state.
func (e *Editor) Viewport() viewport.Viewport { return e.view }

// Layers returns the layer visibility.
func (e *Editor) Layers() catalog.Layers { return e.layers }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// ActiveSymbol returns the catalog entry used by the add-symbol tool.
func (e *Editor) ActiveSymbol() catalog.SymbolType { return e.activeSymbol }

// Snap returns the grid step.
func (e *Editor) Snap() float64 { return e.snap }

// Selection returns the selected id, or "".
func (e *Editor) Selection() string { return e.selection }

// Selected returns the selected symbol if the selection refers to one.
func (e *Editor) Selected() (plan.Symbol, bool) {
	if e.selection == "" {
		return plan.Symbol{}, false
	}
	return e.Document().Symbol(e.selection)
}

// WireDraft returns the in-progress wire.
func (e *Editor) WireDraft() (WireDraft, bool) {
	if e.wireDraft == nil {
		return WireDraft{}, false
	}
	return *e.wireDraft, true
}

// MeasureDraft returns the in-progress measurement.
func (e *Editor) MeasureDraft() (MeasureDraft, bool) {
	if e.measureDraft == nil {
		return MeasureDraft{}, false
	}
	return *e.measureDraft, true
}

// Panning reports whether a pan gesture is in progress.
func (e *Editor) Panning() bool { return e.panning }

// Dragging reports whether a symbol drag is in progress.
func (e *Editor) Dragging() bool { return e.dragging }

// Hovering reports whether the pointer is over the drawing surface.
func (e *Editor) Hovering() bool { return e.hovering }

// Background returns the session background, or nil.
func (e *Editor) Background() *background.Image { return e.bg }

// WorldSize returns the world extent: the background size, or the default.
func (e *Editor) WorldSize() geometry.Size {
	if e.bg.Width() <= 0 || e.bg.Height() <= 0 {
		return e.world
	}
	return viewport.WorldSize(e.bg.Width(), e.bg.Height())
}

// commit writes doc as a new history entry.
func (e *Editor) commit(op string, doc plan.Document) {
	e.hist.Set(doc)
	e.log.Debug().Str("op", op).Int("history", e.hist.Len()).Msg("commit")
}

func clampSnap(step float64) float64 {
	if !(step > 0) {
		return 0
	}
	return step
}
