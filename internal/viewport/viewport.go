// Package viewport maps between screen and world coordinates for the plan
// canvas and implements zoom-at-cursor and fit-to-view.
package viewport

import (
	"math"

	"plan-editor/pkg/geometry"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 8.0
	ZoomStep = 1.1

	// FitMargin leaves a 5% border around the fitted world.
	FitMargin = 0.95
)

// DefaultWorldSize is the world extent used when no background is loaded.
var DefaultWorldSize = geometry.Size{Width: 1600, Height: 900}

// Viewport is the transient pan/zoom state of the canvas. It is not part of
// the undo history.
type Viewport struct {
	Zoom float64
	Pan  geometry.Point2D
}

// Default returns zoom 1 with no pan.
func Default() Viewport {
	return Viewport{Zoom: 1}
}

// ToWorld maps a screen point into world coordinates.
func (v Viewport) ToWorld(screen geometry.Point2D) geometry.Point2D {
	return geometry.ToWorld(screen, v.Pan, v.Zoom)
}

// ToScreen maps a world point into screen coordinates.
func (v Viewport) ToScreen(world geometry.Point2D) geometry.Point2D {
	return geometry.ToScreen(world, v.Pan, v.Zoom)
}

// Transform returns the world-to-screen affine transform.
func (v Viewport) Transform() geometry.AffineTransform {
	return geometry.ViewTransform(v.Pan, v.Zoom)
}

// ZoomAt changes the zoom to z, clamped to [MinZoom, MaxZoom], keeping the
// world point under cursor fixed on screen.
func (v Viewport) ZoomAt(cursor geometry.Point2D, z float64) Viewport {
	before := v.ToWorld(cursor)
	v.Zoom = Clamp(z)
	v.Pan = cursor.Sub(before.Scale(v.Zoom))
	return v
}

// Wheel applies one wheel step at cursor. A positive deltaY zooms out, a
// negative one zooms in and zero leaves the viewport as is.
func (v Viewport) Wheel(cursor geometry.Point2D, deltaY float64) Viewport {
	switch {
	case deltaY > 0:
		return v.ZoomAt(cursor, v.Zoom/ZoomStep)
	case deltaY < 0:
		return v.ZoomAt(cursor, v.Zoom*ZoomStep)
	default:
		return v
	}
}

// PanBy translates the pan by a screen-space delta.
func (v Viewport) PanBy(dx, dy float64) Viewport {
	v.Pan = v.Pan.Add(geometry.NewPoint2D(dx, dy))
	return v
}

// Fit scales the world to the container with a small margin and centers it.
// The viewport is returned unchanged if either size is empty.
func (v Viewport) Fit(container, world geometry.Size) Viewport {
	if container.Empty() || world.Empty() {
		return v
	}
	z := math.Min(container.Width/world.Width, container.Height/world.Height) * FitMargin
	return Viewport{
		Zoom: z,
		Pan: geometry.NewPoint2D(
			(container.Width-world.Width*z)/2,
			(container.Height-world.Height*z)/2,
		),
	}
}

// Clamp limits z to [MinZoom, MaxZoom].
func Clamp(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// WorldSize returns the background dimensions, or DefaultWorldSize when
// there is no usable background.
func WorldSize(bgWidth, bgHeight int) geometry.Size {
	if bgWidth <= 0 || bgHeight <= 0 {
		return DefaultWorldSize
	}
	return geometry.Size{Width: float64(bgWidth), Height: float64(bgHeight)}
}
