// Package history provides a linear undo/redo stack of immutable snapshots.
//
// A History holds an ordered list of values and a cursor. Writing a new value
// truncates everything after the cursor and appends, so the redo branch is
// discarded on every edit. Values are never modified in place; callers must
// treat the value returned by Current as read-only and produce a new value
// for each change.
package history

// History is a generic undo/redo container.
type History[T any] struct {
	stack []T
	index int
	limit int
}

// Option configures a History.
type Option func(*config)

type config struct {
	limit int
}

// WithLimit caps the number of retained snapshots. Zero or less keeps all.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// New creates a History whose only snapshot is initial.
func New[T any](initial T, opts ...Option) *History[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &History[T]{
		stack: []T{initial},
		limit: cfg.limit,
	}
}

// Current returns the snapshot at the cursor.
func (h *History[T]) Current() T {
	return h.stack[h.index]
}

// Set discards any redo snapshots, appends v and moves the cursor onto it.
func (h *History[T]) Set(v T) {
	h.stack = append(h.stack[:h.index+1], v)
	h.index++
	h.trim()
}

// Update is Set with the next value computed from the current one.
func (h *History[T]) Update(fn func(T) T) {
	h.Set(fn(h.Current()))
}

// Amend replaces the snapshot at the cursor with fn(Current()) without
// adding an entry. Redo snapshots are discarded as with Set. It is meant for
// folding a continuous gesture into the entry the gesture started.
func (h *History[T]) Amend(fn func(T) T) {
	h.stack = h.stack[:h.index+1]
	h.stack[h.index] = fn(h.Current())
}

// Undo moves the cursor back one snapshot. It reports whether it moved.
func (h *History[T]) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	return true
}

// Redo moves the cursor forward one snapshot. It reports whether it moved.
func (h *History[T]) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	return true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History[T]) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a later snapshot exists.
func (h *History[T]) CanRedo() bool {
	return h.index < len(h.stack)-1
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int {
	return len(h.stack)
}

// Index returns the cursor position.
func (h *History[T]) Index() int {
	return h.index
}

// Reset drops every snapshot and starts over from v.
func (h *History[T]) Reset(v T) {
	h.stack = []T{v}
	h.index = 0
}

func (h *History[T]) trim() {
	if h.limit <= 0 || len(h.stack) <= h.limit {
		return
	}
	drop := len(h.stack) - h.limit
	h.stack = append([]T(nil), h.stack[drop:]...)
	h.index -= drop
}
