package catalog

// LayerID identifies one of the fixed plan layers.
type LayerID string

const (
	LayerBackground LayerID = "bg"
	LayerSymbols    LayerID = "symbols"
	LayerWires      LayerID = "wires"
	LayerDims       LayerID = "dims"
)

// Layer is a visibility toggle for one category of plan content.
type Layer struct {
	ID      LayerID
	Name    string
	Visible bool
}

// Layers is the ordered set of plan layers. It is session state and is
// neither part of the undo history nor of the saved document.
type Layers []Layer

// DefaultLayers returns the four layers with their initial visibility.
// Dimensions start hidden.
func DefaultLayers() Layers {
	return Layers{
		{ID: LayerBackground, Name: "Plan", Visible: true},
		{ID: LayerSymbols, Name: "Symbols", Visible: true},
		{ID: LayerWires, Name: "Wires", Visible: true},
		{ID: LayerDims, Name: "Dimensions", Visible: false},
	}
}

// Visible reports whether the layer is shown. Unknown ids are hidden.
func (ls Layers) Visible(id LayerID) bool {
	for _, l := range ls {
		if l.ID == id {
			return l.Visible
		}
	}
	return false
}

// Toggle returns a copy with the visibility of id flipped.
func (ls Layers) Toggle(id LayerID) Layers {
	out := make(Layers, len(ls))
	copy(out, ls)
	for i := range out {
		if out[i].ID == id {
			out[i].Visible = !out[i].Visible
		}
	}
	return out
}

// WithVisible returns a copy with the visibility of id set explicitly.
func (ls Layers) WithVisible(id LayerID, visible bool) Layers {
	out := make(Layers, len(ls))
	copy(out, ls)
	for i := range out {
		if out[i].ID == id {
			out[i].Visible = visible
		}
	}
	return out
}
