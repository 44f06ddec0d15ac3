package plan

import (
	"errors"
	"fmt"

	"plan-editor/pkg/geometry"
)

// Document is one immutable snapshot of a plan. Every mutating method
// returns a new Document and leaves the receiver untouched; collections that
// are not affected by a change are shared between snapshots.
type Document struct {
	Symbols  []Symbol      `json:"symbols"`
	Wires    []Wire        `json:"wires"`
	Measures []Measurement `json:"measures"`
}

// Empty returns a document with no content and non-nil collections.
func Empty() Document {
	return Document{
		Symbols:  []Symbol{},
		Wires:    []Wire{},
		Measures: []Measurement{},
	}
}

// SymbolPatch carries optional replacements for symbol properties.
type SymbolPatch struct {
	X   *float64
	Y   *float64
	Rot *float64
}

// Elements returns every element, symbols first, then wires, then
// measurements, each in creation order.
func (d Document) Elements() []Element {
	out := make([]Element, 0, len(d.Symbols)+len(d.Wires)+len(d.Measures))
	for _, s := range d.Symbols {
		out = append(out, s)
	}
	for _, w := range d.Wires {
		out = append(out, w)
	}
	for _, m := range d.Measures {
		out = append(out, m)
	}
	return out
}

// IsEmpty reports whether the document has no content.
func (d Document) IsEmpty() bool {
	return len(d.Symbols) == 0 && len(d.Wires) == 0 && len(d.Measures) == 0
}

// Symbol returns the symbol with the given id.
func (d Document) Symbol(id string) (Symbol, bool) {
	for _, s := range d.Symbols {
		if s.ID == id {
			return s, true
		}
	}
	return Symbol{}, false
}

// Contains reports whether any element carries id.
func (d Document) Contains(id string) bool {
	for _, e := range d.Elements() {
		if e.ElementID() == id {
			return true
		}
	}
	return false
}

// HitTestSymbol returns the most recently added symbol whose anchor lies
// within radius of p.
func (d Document) HitTestSymbol(p geometry.Point2D, radius float64) (Symbol, bool) {
	for i := len(d.Symbols) - 1; i >= 0; i-- {
		s := d.Symbols[i]
		if s.Pos().Distance(p) <= radius {
			return s, true
		}
	}
	return Symbol{}, false
}

// AddSymbol appends a symbol.
func (d Document) AddSymbol(s Symbol) Document {
	s.Rot = NormalizeRotation(s.Rot)
	d.Symbols = appendCopy(d.Symbols, s)
	return d
}

// MoveSymbol sets the anchor of symbol id.
func (d Document) MoveSymbol(id string, p geometry.Point2D) Document {
	return d.mapSymbol(id, func(s Symbol) Symbol {
		s.X, s.Y = p.X, p.Y
		return s
	})
}

// RotateSymbol adds delta degrees to symbol id, wrapping into [0,360).
func (d Document) RotateSymbol(id string, delta float64) Document {
	return d.mapSymbol(id, func(s Symbol) Symbol {
		s.Rot = NormalizeRotation(s.Rot + delta)
		return s
	})
}

// UpdateSymbol applies the non-nil fields of patch to symbol id.
func (d Document) UpdateSymbol(id string, patch SymbolPatch) Document {
	return d.mapSymbol(id, func(s Symbol) Symbol {
		if patch.X != nil {
			s.X = *patch.X
		}
		if patch.Y != nil {
			s.Y = *patch.Y
		}
		if patch.Rot != nil {
			s.Rot = NormalizeRotation(*patch.Rot)
		}
		return s
	})
}

// DuplicateSymbol appends a copy of symbol id under newID, shifted by offset.
// The document is returned unchanged if id does not exist.
func (d Document) DuplicateSymbol(id, newID string, offset geometry.Point2D) Document {
	s, ok := d.Symbol(id)
	if !ok {
		return d
	}
	s.ID = newID
	s.X += offset.X
	s.Y += offset.Y
	return d.AddSymbol(s)
}

// AddWire appends a wire. The point slice is copied.
func (d Document) AddWire(w Wire) Document {
	w.Points = append([]geometry.Point2D(nil), w.Points...)
	d.Wires = appendCopy(d.Wires, w)
	return d
}

// AddMeasurement appends a measurement.
func (d Document) AddMeasurement(m Measurement) Document {
	d.Measures = appendCopy(d.Measures, m)
	return d
}

// RemoveID drops id from both the symbols and the wires.
func (d Document) RemoveID(id string) Document {
	d.Symbols = filter(d.Symbols, func(s Symbol) bool { return s.ID != id })
	d.Wires = filter(d.Wires, func(w Wire) bool { return w.ID != id })
	return d
}

// Normalize returns the document with nil collections replaced by empty
// ones, rotations wrapped into [0,360) and measurement labels re-derived
// from their endpoints.
func (d Document) Normalize() Document {
	out := Empty()
	for _, s := range d.Symbols {
		s.Rot = NormalizeRotation(s.Rot)
		out.Symbols = append(out.Symbols, s)
	}
	for _, w := range d.Wires {
		if w.Points == nil {
			w.Points = []geometry.Point2D{}
		}
		out.Wires = append(out.Wires, w)
	}
	for _, m := range d.Measures {
		m.Label = m.DisplayLabel()
		out.Measures = append(out.Measures, m)
	}
	return out
}

// Validate reports structural problems: duplicate ids within a collection
// and wires with fewer than two points. It never modifies the document.
func (d Document) Validate() error {
	var errs []error
	seen := map[string]bool{}
	check := func(kind ElementKind, id string) {
		key := kind.String() + ":" + id
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate %s id %q", kind, id))
		}
		seen[key] = true
	}
	for _, s := range d.Symbols {
		check(KindSymbol, s.ID)
	}
	for _, w := range d.Wires {
		check(KindWire, w.ID)
		if len(w.Points) < 2 {
			errs = append(errs, fmt.Errorf("wire %q has %d point(s)", w.ID, len(w.Points)))
		}
	}
	for _, m := range d.Measures {
		check(KindMeasurement, m.ID)
	}
	return errors.Join(errs...)
}

// Stats summarizes a document.
type Stats struct {
	Symbols       int
	SymbolsByType map[string]int
	Wires         int
	WireLength    float64
	Measurements  int
}

// Stats counts the document content. WireLength is in world units.
func (d Document) Stats() Stats {
	st := Stats{
		Symbols:       len(d.Symbols),
		SymbolsByType: map[string]int{},
		Wires:         len(d.Wires),
		Measurements:  len(d.Measures),
	}
	for _, s := range d.Symbols {
		st.SymbolsByType[s.Type]++
	}
	for _, w := range d.Wires {
		st.WireLength += w.Length()
	}
	return st
}

func (d Document) mapSymbol(id string, fn func(Symbol) Symbol) Document {
	idx := -1
	for i, s := range d.Symbols {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d
	}
	next := make([]Symbol, len(d.Symbols))
	copy(next, d.Symbols)
	next[idx] = fn(next[idx])
	d.Symbols = next
	return d
}

func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
