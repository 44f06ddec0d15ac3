package render

import "plan-editor/internal/editor"

// FromEditor captures the scene input of the editor's current state.
func FromEditor(e *editor.Editor) SceneInput {
	in := SceneInput{
		Doc:           e.Document(),
		Layers:        e.Layers(),
		Selection:     e.Selection(),
		World:         e.WorldSize(),
		Snap:          e.Snap(),
		HasBackground: e.Background() != nil,
	}
	if d, ok := e.WireDraft(); ok {
		in.WireDraft = d.Preview()
	}
	if d, ok := e.MeasureDraft(); ok {
		in.MeasureDraft = &Segment{A: d.A, B: d.B}
	}
	return in
}
