package canvas

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"plan-editor/pkg/colorutil"
	"plan-editor/pkg/geometry"
)

const readoutPadding = 4

// readout is the pointer position and zoom shown in the canvas corner.
type readout struct {
	text   *fynecanvas.Text
	zoom   float64
	pos    geometry.Point2D
	hasPos bool
}

func newReadout() *readout {
	t := fynecanvas.NewText("", colorutil.Ink)
	t.TextSize = theme.CaptionTextSize()
	t.TextStyle = fyne.TextStyle{Monospace: true}
	return &readout{text: t, zoom: 1}
}

func (r *readout) setZoom(z float64) {
	r.zoom = z
	r.refresh()
}

func (r *readout) setPosition(world geometry.Point2D) {
	r.pos, r.hasPos = world, true
	r.refresh()
}

func (r *readout) clearPosition() {
	r.hasPos = false
	r.refresh()
}

// String formats the readout as "x, y  zoom%".
func (r *readout) String() string {
	zoom := fmt.Sprintf("%d%%", int(math.Round(r.zoom*100)))
	if !r.hasPos {
		return zoom
	}
	return fmt.Sprintf("%.0f, %.0f  %s", r.pos.X, r.pos.Y, zoom)
}

func (r *readout) refresh() {
	r.text.Text = r.String()
	r.text.Refresh()
}

func (r *readout) layout(size fyne.Size) {
	ms := r.text.MinSize()
	r.text.Move(fyne.NewPos(readoutPadding, size.Height-ms.Height-readoutPadding))
	r.text.Resize(ms)
}
