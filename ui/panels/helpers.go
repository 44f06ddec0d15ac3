package panels

import (
	"strconv"
	"strings"

	"plan-editor/internal/editor"
)

// toolLabels are the radio labels, in editor.Tools() order.
var toolLabels = map[editor.Tool]string{
	editor.ToolSelect:    "Select",
	editor.ToolWire:      "Wire",
	editor.ToolAddSymbol: "Symbol",
	editor.ToolMeasure:   "Measure",
}

// ToolLabel returns the display name of a tool.
func ToolLabel(t editor.Tool) string {
	if l, ok := toolLabels[t]; ok {
		return l
	}
	return t.String()
}

func toolForLabel(label string) (editor.Tool, bool) {
	for t, l := range toolLabels {
		if l == label {
			return t, true
		}
	}
	return 0, false
}

// ToolHint is the status bar help for a tool.
func ToolHint(t editor.Tool) string {
	switch t {
	case editor.ToolWire:
		return "Click to add points, Enter to finish, Esc to cancel"
	case editor.ToolAddSymbol:
		return "Click to place the symbol"
	case editor.ToolMeasure:
		return "Click the start, then the end of the measurement"
	default:
		return "Click a symbol to select it, drag to move, arrows rotate, Delete removes"
	}
}

// parseFloat accepts a decimal comma as well as a point.
func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
