// Package plan holds the editable content of an electrical plan: placed
// symbols, wires and distance measurements.
package plan

import (
	"fmt"
	"math"

	"plan-editor/pkg/geometry"
)

// ElementKind discriminates the concrete type behind an Element.
type ElementKind int

const (
	KindSymbol ElementKind = iota
	KindWire
	KindMeasurement
)

func (k ElementKind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindWire:
		return "wire"
	case KindMeasurement:
		return "measurement"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is implemented by Symbol, Wire and Measurement only. Consumers
// switch on Kind (or a type switch) instead of probing fields.
type Element interface {
	ElementID() string
	Kind() ElementKind
	Bounds() geometry.Rect
	element()
}

// Symbol is a placed electrical symbol. Rot is in degrees within [0,360).
type Symbol struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rot  float64 `json:"rot"`
}

// Wire is an open polyline with at least two points.
type Wire struct {
	ID     string             `json:"id"`
	Points []geometry.Point2D `json:"points"`
	Label  string             `json:"label"`
}

// Measurement is a distance annotation between A and B. Label is the
// formatted distance captured when the measurement was made.
type Measurement struct {
	ID    string           `json:"id"`
	A     geometry.Point2D `json:"a"`
	B     geometry.Point2D `json:"b"`
	Label string           `json:"label"`
}

// SymbolRadius is the radius of the marker circle drawn for a symbol.
const SymbolRadius = 16

func (s Symbol) ElementID() string { return s.ID }
func (s Symbol) Kind() ElementKind { return KindSymbol }
func (s Symbol) element()          {}

// Pos returns the symbol anchor point.
func (s Symbol) Pos() geometry.Point2D {
	return geometry.NewPoint2D(s.X, s.Y)
}

// Bounds returns the box covering the symbol marker.
func (s Symbol) Bounds() geometry.Rect {
	return geometry.NewRect(s.X-SymbolRadius, s.Y-SymbolRadius, 2*SymbolRadius, 2*SymbolRadius)
}

func (w Wire) ElementID() string { return w.ID }
func (w Wire) Kind() ElementKind { return KindWire }
func (w Wire) element()          {}

// Bounds returns the box covering all wire points.
func (w Wire) Bounds() geometry.Rect {
	return geometry.BoundingBox(w.Points)
}

// Length returns the wire length in world units.
func (w Wire) Length() float64 {
	return geometry.PolylineLength(w.Points)
}

func (m Measurement) ElementID() string { return m.ID }
func (m Measurement) Kind() ElementKind { return KindMeasurement }
func (m Measurement) element()          {}

// Bounds returns the box covering both endpoints.
func (m Measurement) Bounds() geometry.Rect {
	return geometry.BoundingBox([]geometry.Point2D{m.A, m.B})
}

// Distance returns the Euclidean length of the measurement.
func (m Measurement) Distance() float64 {
	return geometry.Distance(m.A, m.B)
}

// DisplayLabel returns the label derived from the current endpoints. It is
// what gets drawn; the stored Label is kept for the saved file.
func (m Measurement) DisplayLabel() string {
	return FormatDistance(m.Distance())
}

// NewMeasurement builds a measurement with its label computed from a and b.
func NewMeasurement(id string, a, b geometry.Point2D) Measurement {
	m := Measurement{ID: id, A: a, B: b}
	m.Label = m.DisplayLabel()
	return m
}

// FormatDistance formats a distance in world units (centimetres) as metres
// with two decimals, e.g. 500 -> "5.00 m".
func FormatDistance(d float64) string {
	return fmt.Sprintf("%.2f m", d/100)
}

// NormalizeRotation wraps degrees into [0,360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(math.Mod(deg, 360)+360, 360)
	if r == 360 {
		return 0
	}
	return r
}
